package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/disintegration/imaging"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/openclaw/qrgen/controller"
	"github.com/openclaw/qrgen/i18n"
	"github.com/openclaw/qrgen/render"
)

type renderOptions struct {
	Content     string
	PixelSize   int
	Dark        string
	Light       string
	LogoPath    string
	LogoSize    int
	LogoStyle   string
	LogoOpacity float64
	Out         string
	Verify      bool
	Terminal    bool
}

func newRenderCmd() *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [content]",
		Short: "Render a QR code to a PNG file or the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Content = args[0]
			}
			if strings.TrimSpace(opts.Content) == "" {
				if !isatty.IsTerminal(os.Stdin.Fd()) {
					return errors.New("content is required")
				}
				if err := promptContent(&opts.Content); err != nil {
					return err
				}
			}
			return runRender(cmd.OutOrStdout(), opts, time.Now())
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.PixelSize, "size", "s", controller.DefaultPixelSize, "Image width in pixels (200-500)")
	f.StringVar(&opts.Dark, "dark", controller.DefaultDarkColor, "Dark module color")
	f.StringVar(&opts.Light, "light", controller.DefaultLightColor, "Light module color")
	f.StringVar(&opts.LogoPath, "logo", "", "Logo image to overlay (PNG, JPEG, GIF, WebP, SVG)")
	f.IntVar(&opts.LogoSize, "logo-size", controller.DefaultLogoSize, "Logo size in pixels (30-120)")
	f.StringVar(&opts.LogoStyle, "logo-style", string(render.LogoCircular), "Logo style: circular or square")
	f.Float64Var(&opts.LogoOpacity, "logo-opacity", controller.MaxLogoOpacity, "Logo opacity (0.1-1)")
	f.StringVarP(&opts.Out, "out", "o", "", "Output file (default qr-code-<epoch-ms>.png)")
	f.BoolVar(&opts.Verify, "verify", false, "Decode the result and check it matches the content")
	f.BoolVar(&opts.Terminal, "terminal", false, "Print the code to the terminal instead of a file")
	return cmd
}

func promptContent(out *string) error {
	prompt := &survey.Input{
		Message: "Content:",
		Help:    "URL, text, phone number, email, or any content",
	}
	return survey.AskOne(prompt, out, survey.WithValidator(survey.Required))
}

// runRender draws one code with the same pipeline the studio uses.
func runRender(w io.Writer, opts renderOptions, now time.Time) error {
	if opts.Terminal {
		return render.WriteTerminal(w, opts.Content)
	}
	if strings.TrimSpace(opts.Content) == "" {
		return errors.New("content is required")
	}

	dark, err := render.ParseHexColor(opts.Dark)
	if err != nil {
		return fmt.Errorf("--dark: %w", err)
	}
	light, err := render.ParseHexColor(opts.Light)
	if err != nil {
		return fmt.Errorf("--light: %w", err)
	}

	req := render.Request{
		Generation: 1,
		Content:    opts.Content,
		PixelSize:  clamp(opts.PixelSize, controller.MinPixelSize, controller.MaxPixelSize),
		Dark:       dark,
		Light:      light,
	}
	if opts.LogoPath != "" {
		logo, err := loadLogo(opts)
		if err != nil {
			return err
		}
		req.Logo = logo
	}

	surface := render.NewSurface()
	if err := render.NewPipeline(nil).Render(surface, req); err != nil {
		return err
	}
	data, err := surface.PNG()
	if err != nil {
		return err
	}

	if opts.Verify {
		got, err := render.Scan(surface.Image())
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if got != opts.Content {
			return fmt.Errorf("verify: decoded %q, want %q", got, opts.Content)
		}
	}

	out := opts.Out
	if out == "" {
		out = render.ExportFilename(now)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Fprintln(w, styleSuccess.Render(iconSuccess+" QR code saved to"), out)
	if opts.Verify {
		fmt.Fprintln(w, styleDim.Render("  decoded content matches"))
	}
	return nil
}

func loadLogo(opts renderOptions) (*render.Logo, error) {
	data, err := os.ReadFile(opts.LogoPath)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(opts.LogoPath)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if err := controller.ValidateLogo(mimeType, int64(len(data))); err != nil {
		return nil, fmt.Errorf("logo %s: %w", opts.LogoPath, err)
	}

	style, ok := render.ParseLogoStyle(opts.LogoStyle)
	if !ok {
		return nil, fmt.Errorf("--logo-style: unknown style %q", opts.LogoStyle)
	}
	img, err := render.DecodeLogo(data, mimeType)
	if err != nil {
		return nil, err
	}

	opacity := opts.LogoOpacity
	if opacity < controller.MinLogoOpacity {
		opacity = controller.MinLogoOpacity
	} else if opacity > controller.MaxLogoOpacity {
		opacity = controller.MaxLogoOpacity
	}
	return &render.Logo{
		Image:   img,
		Size:    clamp(opts.LogoSize, controller.MinLogoSize, controller.MaxLogoSize),
		Style:   style,
		Opacity: opacity,
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>",
		Short: "Decode a QR code from an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := runScan(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func runScan(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	return scanImage(img)
}

func scanImage(img image.Image) (string, error) {
	text, err := render.Scan(img)
	if err != nil {
		return "", fmt.Errorf("no QR code found: %w", err)
	}
	return text, nil
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the available UI languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := i18n.Load()
			if err != nil {
				return err
			}
			return printLanguages(cmd.OutOrStdout(), catalog)
		},
	}
}

func printLanguages(w io.Writer, catalog *i18n.Catalog) error {
	for _, l := range catalog.Languages() {
		marker := " "
		if l.Code == catalog.Fallback() {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s  %-4s %s\n", marker, l.Flag, l.Code, l.Name); err != nil {
			return err
		}
	}
	return nil
}
