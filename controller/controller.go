// Package controller owns the form state of one QR studio session and
// mediates every mutation through named, validated setters. After each
// mutation that feeds the render request it rebuilds the request from the
// full state and redraws the session's surface.
package controller

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/openclaw/qrgen/i18n"
	"github.com/openclaw/qrgen/render"
)

// Tab is the active form section on narrow screens.
type Tab string

const (
	TabContent Tab = "content"
	TabDesign  Tab = "design"
	TabLogo    Tab = "logo"
)

// Style parameter names accepted by SetStyleParam.
const (
	ParamPixelSize  = "pixelSize"
	ParamDarkColor  = "darkColor"
	ParamLightColor = "lightColor"
)

// Logo parameter names accepted by SetLogoParam.
const (
	LogoParamSize    = "size"
	LogoParamStyle   = "style"
	LogoParamOpacity = "opacity"
	LogoParamVisible = "visible"
)

const (
	MinPixelSize     = 200
	MaxPixelSize     = 500
	DefaultPixelSize = 300

	MinLogoSize     = 30
	MaxLogoSize     = 120
	DefaultLogoSize = 60

	MinLogoOpacity = 0.1
	MaxLogoOpacity = 1.0

	DefaultDarkColor  = "#000000"
	DefaultLightColor = "#FFFFFF"

	DefaultNotificationTTL = 3 * time.Second
)

// Renderer draws a request onto a surface. *render.Pipeline implements it.
type Renderer interface {
	Render(s *render.Surface, req render.Request) error
}

// DecodeFunc turns uploaded logo bytes into an image.
type DecodeFunc func(data []byte, mimeType string) (image.Image, error)

// Options configures a Controller. Renderer and Catalog are required.
type Options struct {
	Renderer        Renderer
	Catalog         *i18n.Catalog
	Language        string
	PixelSize       int
	DarkColor       string
	LightColor      string
	NotificationTTL time.Duration
	Decode          DecodeFunc
	Log             *slog.Logger
	Now             func() time.Time
}

// LogoParams are the overlay settings, kept separately from the uploaded
// image so they survive while a new upload decodes.
type LogoParams struct {
	Size    int
	Style   render.LogoStyle
	Opacity float64
	Visible bool
}

func defaultLogoParams() LogoParams {
	return LogoParams{
		Size:    DefaultLogoSize,
		Style:   render.LogoCircular,
		Opacity: MaxLogoOpacity,
	}
}

// logoAsset is the uploaded file. image stays nil until the asynchronous
// decode for token completes.
type logoAsset struct {
	token    uint64
	data     []byte
	mimeType string
	image    image.Image
	err      error
}

// Download is an exported frame.
type Download struct {
	Filename   string
	Data       []byte
	Content    string
	PixelSize  int
	HasLogo    bool
	Generation uint64
}

// Controller is the single owner of one session's parameters and surface.
// All methods are safe for concurrent use; mutations are serialized.
type Controller struct {
	mu sync.Mutex

	renderer Renderer
	catalog  *i18n.Catalog
	decode   DecodeFunc
	log      *slog.Logger
	now      func() time.Time
	ttl      time.Duration

	content    string
	pixelSize  int
	dark       color.NRGBA
	light      color.NRGBA
	logoParams LogoParams
	logo       *logoAsset
	tab        Tab
	language   string

	notification *Notification
	dismiss      *time.Timer

	generation uint64
	logoToken  uint64
	surface    *render.Surface
	frameOK    bool
	renderErr  error
	png        []byte

	decodes sync.WaitGroup
	closed  bool
}

// New returns a Controller with the default form state.
func New(opts Options) (*Controller, error) {
	if opts.Renderer == nil {
		return nil, errors.New("controller: renderer is required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("controller: catalog is required")
	}

	c := &Controller{
		renderer:   opts.Renderer,
		catalog:    opts.Catalog,
		decode:     opts.Decode,
		log:        opts.Log,
		now:        opts.Now,
		ttl:        opts.NotificationTTL,
		pixelSize:  DefaultPixelSize,
		logoParams: defaultLogoParams(),
		tab:        TabContent,
		language:   opts.Language,
		surface:    render.NewSurface(),
	}
	if c.decode == nil {
		c.decode = render.DecodeLogo
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.ttl <= 0 {
		c.ttl = DefaultNotificationTTL
	}
	if !c.catalog.Has(c.language) {
		c.language = c.catalog.Fallback()
	}
	if opts.PixelSize != 0 {
		c.pixelSize = clampInt(opts.PixelSize, MinPixelSize, MaxPixelSize)
	}

	var err error
	if c.dark, err = parseColorOr(opts.DarkColor, DefaultDarkColor); err != nil {
		return nil, fmt.Errorf("controller: dark color: %w", err)
	}
	if c.light, err = parseColorOr(opts.LightColor, DefaultLightColor); err != nil {
		return nil, fmt.Errorf("controller: light color: %w", err)
	}
	return c, nil
}

func parseColorOr(s, def string) (color.NRGBA, error) {
	if strings.TrimSpace(s) == "" {
		s = def
	}
	return render.ParseHexColor(s)
}

// SetContent stores text and redraws when its trimmed form is non-empty.
// Blank content skips rendering: the surface keeps its last frame and the
// download action is disabled.
func (c *Controller) SetContent(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.content = text
	c.renderLocked()
}

// SetStyleParam updates pixelSize, darkColor or lightColor and redraws.
// pixelSize is clamped to [MinPixelSize, MaxPixelSize].
func (c *Controller) SetStyleParam(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case ParamPixelSize:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return invalidParam(name, "%q is not an integer", value)
		}
		c.pixelSize = clampInt(n, MinPixelSize, MaxPixelSize)
	case ParamDarkColor, ParamLightColor:
		col, err := render.ParseHexColor(value)
		if err != nil {
			return invalidParam(name, "%v", err)
		}
		if name == ParamDarkColor {
			c.dark = col
		} else {
			c.light = col
		}
	default:
		return invalidParam(name, "unknown style parameter")
	}

	c.renderLocked()
	return nil
}

// SetLogoParam updates size, style, opacity or visible and redraws. Numeric
// values are clamped to their ranges.
func (c *Controller) SetLogoParam(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := strings.TrimSpace(value)
	switch name {
	case LogoParamSize:
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidParam(name, "%q is not an integer", value)
		}
		c.logoParams.Size = clampInt(n, MinLogoSize, MaxLogoSize)
	case LogoParamStyle:
		style, ok := render.ParseLogoStyle(v)
		if !ok {
			return invalidParam(name, "unknown logo style %q", value)
		}
		c.logoParams.Style = style
	case LogoParamOpacity:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return invalidParam(name, "%q is not a number", value)
		}
		c.logoParams.Opacity = clampFloat(f, MinLogoOpacity, MaxLogoOpacity)
	case LogoParamVisible:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return invalidParam(name, "%q is not a boolean", value)
		}
		c.logoParams.Visible = b
	default:
		return invalidParam(name, "unknown logo parameter")
	}

	c.renderLocked()
	return nil
}

// SelectExample replaces the content with the active language's template
// for key and redraws.
func (c *Controller) SelectExample(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ex, ok := c.catalog.Example(c.language, key)
	if !ok {
		return &ValidationError{Code: CodeUnknownExample, Field: "example", Message: fmt.Sprintf("unknown example %q", key)}
	}
	c.content = ex.Example
	c.renderLocked()
	return nil
}

// SetLanguage switches the string table. It never affects rendering.
func (c *Controller) SetLanguage(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.catalog.Has(code) {
		return &ValidationError{Code: CodeUnknownLanguage, Field: "language", Message: fmt.Sprintf("unknown language %q", code)}
	}
	c.language = code
	return nil
}

// SetTab switches the active form section.
func (c *Controller) SetTab(tab string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch t := Tab(tab); t {
	case TabContent, TabDesign, TabLogo:
		c.tab = t
		return nil
	}
	return invalidParam("tab", "unknown tab %q", tab)
}

// Language returns the active language code.
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// Preview returns the current frame as PNG along with its generation. The
// last valid frame stays available while the content is blank.
func (c *Controller) Preview() ([]byte, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.frameLocked()
	return data, c.generation, err
}

// Export returns the current frame as a download. It fails with
// render.ErrEmptyCanvas while the download action is disabled.
func (c *Controller) Export(now time.Time) (Download, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.canDownloadLocked() {
		return Download{}, render.ErrEmptyCanvas
	}
	data, err := c.frameLocked()
	if err != nil {
		c.notifyLocked(KindError, "errorDownloadingQR")
		return Download{}, err
	}

	c.notifyLocked(KindSuccess, "qrDownloadSuccess")
	return Download{
		Filename:   render.ExportFilename(now),
		Data:       data,
		Content:    c.content,
		PixelSize:  c.surface.Image().Bounds().Dx(),
		HasLogo:    c.logoDrawnLocked(),
		Generation: c.generation,
	}, nil
}

// Wait blocks until in-flight logo decodes have finished.
func (c *Controller) Wait() {
	c.decodes.Wait()
}

// Close stops the dismiss timer and waits for in-flight decodes. Later
// decode completions are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.dismiss != nil {
		c.dismiss.Stop()
		c.dismiss = nil
	}
	c.mu.Unlock()

	c.decodes.Wait()
}

// --- rendering ---------------------------------------------------------------

// renderLocked rebuilds the request from the full state and redraws. It is
// the single render path; every mutator that feeds the request calls it.
func (c *Controller) renderLocked() {
	if strings.TrimSpace(c.content) == "" {
		return
	}

	c.generation++
	req := c.requestLocked()
	err := c.renderer.Render(c.surface, req)
	c.png = nil
	c.renderErr = err

	switch {
	case err == nil:
		c.frameOK = true
	case errors.Is(err, render.ErrLogoDecodeFailed):
		c.frameOK = c.surface.Rendered()
		c.log.Warn("logo overlay failed", "generation", req.Generation, "error", err)
		c.notifyLocked(KindError, "errorLoadingLogo")
	default:
		c.frameOK = false
		c.log.Warn("QR generation failed", "generation", req.Generation, "error", err)
		c.notifyLocked(KindError, "errorGeneratingQR")
	}
}

func (c *Controller) requestLocked() render.Request {
	req := render.Request{
		Generation: c.generation,
		Content:    c.content,
		PixelSize:  c.pixelSize,
		Dark:       c.dark,
		Light:      c.light,
	}
	if c.logoDrawnLocked() {
		req.Logo = &render.Logo{
			Image:   c.logo.image,
			Size:    c.logoParams.Size,
			Style:   c.logoParams.Style,
			Opacity: c.logoParams.Opacity,
		}
	}
	return req
}

func (c *Controller) logoDrawnLocked() bool {
	return c.logoParams.Visible && c.logo != nil && c.logo.image != nil
}

func (c *Controller) canDownloadLocked() bool {
	return strings.TrimSpace(c.content) != "" && c.frameOK && c.surface.Rendered()
}

func (c *Controller) frameLocked() ([]byte, error) {
	if c.png != nil {
		return c.png, nil
	}
	data, err := c.surface.PNG()
	if err != nil {
		return nil, err
	}
	c.png = data
	return data, nil
}

// --- snapshot ----------------------------------------------------------------

// LogoSnapshot describes the overlay state.
type LogoSnapshot struct {
	Uploaded bool    `json:"uploaded"`
	Pending  bool    `json:"pending"`
	Visible  bool    `json:"visible"`
	Size     int     `json:"size"`
	Style    string  `json:"style"`
	Opacity  float64 `json:"opacity"`
	Error    string  `json:"error,omitempty"`
}

// Snapshot is a read-only copy of the form state.
type Snapshot struct {
	Content      string        `json:"content"`
	Characters   int           `json:"characters"`
	PixelSize    int           `json:"pixelSize"`
	DarkColor    string        `json:"darkColor"`
	LightColor   string        `json:"lightColor"`
	Logo         LogoSnapshot  `json:"logo"`
	Tab          Tab           `json:"tab"`
	Language     string        `json:"language"`
	Notification *Notification `json:"notification,omitempty"`
	CanDownload  bool          `json:"canDownload"`
	HasPreview   bool          `json:"hasPreview"`
	Generation   uint64        `json:"generation"`
	Error        string        `json:"error,omitempty"`
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Content:     c.content,
		Characters:  utf8.RuneCountInString(c.content),
		PixelSize:   c.pixelSize,
		DarkColor:   render.HexColor(c.dark),
		LightColor:  render.HexColor(c.light),
		Tab:         c.tab,
		Language:    c.language,
		CanDownload: c.canDownloadLocked(),
		HasPreview:  c.surface.Rendered(),
		Generation:  c.generation,
		Logo: LogoSnapshot{
			Uploaded: c.logo != nil,
			Visible:  c.logoParams.Visible,
			Size:     c.logoParams.Size,
			Style:    string(c.logoParams.Style),
			Opacity:  c.logoParams.Opacity,
		},
	}
	if c.logo != nil {
		s.Logo.Pending = c.logo.image == nil && c.logo.err == nil
		if c.logo.err != nil {
			s.Logo.Error = c.logo.err.Error()
		}
	}
	if c.renderErr != nil {
		s.Error = c.renderErr.Error()
	}
	if n := c.activeNotificationLocked(); n != nil {
		cp := *n
		s.Notification = &cp
	}
	return s
}
