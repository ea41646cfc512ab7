package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tokenlogo/pkg/core/palette"
	"github.com/matzehuels/tokenlogo/pkg/core/pattern"
)

// stdout receives all human-facing output. Logs go to stderr.
var stdout io.Writer = os.Stdout

// =============================================================================
// Colors & Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printStatus(icon string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(stdout, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	printStatus(iconSuccess, styleIconSuccess, format, args...)
}

func printError(format string, args ...any) {
	printStatus(iconError, styleIconError, format, args...)
}

func printWarning(format string, args ...any) {
	printStatus(iconWarning, styleIconWarning, "%s", styleIconWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(iconInfo, styleIconInfo, format, args...)
}

// printDetail prints a dimmed, indented line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an indented "→ path" line for a written file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+value)
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Logo Display
// =============================================================================

// printLogoStats prints "12.3 KB · cached · 1.2ms".
func printLogoStats(size int, cached bool, elapsed time.Duration) {
	status := StyleDim.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(stdout, "  "+StyleDim.Render(formatBytes(size))+sep+status+sep+
		StyleDim.Render(elapsed.Round(time.Microsecond).String()))
}

// swatch renders a colored block followed by the hex value.
func swatch(c palette.RGB) string {
	hex := c.Hex()
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ") + " " + StyleValue.Render(hex)
}

func printPalette(p palette.Palette) {
	printKeyValue("Primary", swatch(p.Primary)+StyleDim.Render(fmt.Sprintf("  hue %d°", p.Hue1)))
	printKeyValue("Secondary", swatch(p.Secondary)+StyleDim.Render(fmt.Sprintf("  hue %d°", p.Hue2)))
	printKeyValue("Tint", swatch(p.Tint))
}

// printGrid draws the 7×7 pattern, two terminal columns per cell.
func printGrid(g pattern.Grid, fill palette.RGB) {
	on := lipgloss.NewStyle().Foreground(lipgloss.Color(fill.Hex())).Render("██")
	off := StyleDim.Render("··")
	for _, row := range g.Rows() {
		line := strings.NewReplacer("#", on, ".", off).Replace(row)
		fmt.Fprintln(stdout, "  "+line)
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
