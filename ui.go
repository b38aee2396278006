package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLink    = lipgloss.NewStyle().Foreground(colorCyan).Underline(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleDim     = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconArrow   = "→"
)

// newLogger returns a slog logger backed by charmbracelet/log. Unknown level
// names fall back to info.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = charmlog.InfoLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           lvl,
	})
	return slog.New(handler)
}

func printBanner(w io.Writer, version string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("🎯 QR Generator Pro")+" "+styleDim.Render(version+" - Starting..."))
	fmt.Fprintln(w)
}

func printServing(w io.Writer, url string, opening bool) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess+" Server running at:"), styleLink.Render(url))
	if opening {
		fmt.Fprintln(w, styleWarning.Render("✨ Opening browser..."))
	}
	fmt.Fprintln(w, styleDim.Render("Press Ctrl+C to stop"))
	fmt.Fprintln(w)
}

func printManualOpen(w io.Writer, url string) {
	fmt.Fprintln(w, styleWarning.Render("Could not open browser automatically"))
	fmt.Fprintln(w, styleDim.Render("Please open "+iconArrow), styleLink.Render(url))
}

func printFailure(w io.Writer, err error) {
	fmt.Fprintln(w, styleError.Render(iconError+" "+err.Error()))
}
