package cli

import (
	"fmt"
	"image"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/tokenlogo/pkg/errors"
	"github.com/matzehuels/tokenlogo/pkg/logo"
)

// defaultThumbSize is the preview edge length in pixels. Each terminal
// row shows two pixel rows.
const defaultThumbSize = 32

// Preview styles
var (
	previewLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	previewActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	previewFieldStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	previewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "preview [name] [symbol]",
		Short: "Preview logos interactively in the terminal",
		Long: `Preview renders a scaled-down logo in the terminal and updates it as you
type. Tab switches between the name and symbol fields, enter saves the
current logo as <symbol>.png and esc quits.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name, symbol string
			if len(args) > 0 {
				name = args[0]
			}
			if len(args) > 1 {
				symbol = args[1]
			}
			if size < 8 || size > 128 {
				return fmt.Errorf("--size must be between 8 and 128")
			}
			m := newPreviewModel(logo.New(), name, symbol, size)
			_, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&size, "size", defaultThumbSize, "thumbnail size in pixels")

	return cmd
}

// =============================================================================
// previewModel - Interactive logo preview
// =============================================================================

const (
	fieldName = iota
	fieldSymbol
)

// savedMsg reports the outcome of writing the current logo to disk.
type savedMsg struct {
	path string
	err  error
}

// previewModel is the bubbletea model behind the preview command.
type previewModel struct {
	gen    *logo.Generator
	name   string
	symbol string
	focus  int
	size   int

	result *logo.Result
	thumb  string
	status string
	err    error
}

func newPreviewModel(gen *logo.Generator, name, symbol string, size int) previewModel {
	m := previewModel{gen: gen, name: name, symbol: symbol, size: size}
	if name == "" {
		m.focus = fieldName
	} else if symbol == "" {
		m.focus = fieldSymbol
	}
	m.rebuild()
	return m
}

// rebuild regenerates the logo and thumbnail for the current fields.
func (m *previewModel) rebuild() {
	r, err := m.gen.Build(m.name, m.symbol)
	if err != nil {
		m.result, m.thumb, m.err = nil, "", err
		return
	}
	m.result, m.err = r, nil
	m.thumb = halfBlocks(thumbnail(r.Canvas.RGBA(), m.size))
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			m.status = styleIconError.Render(iconError) + " " + msg.err.Error()
		} else {
			m.status = styleIconSuccess.Render(iconSuccess) + " saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			m.focus = 1 - m.focus
			return m, nil
		case tea.KeyEnter:
			return m, m.save()
		case tea.KeyBackspace:
			m.edit(func(s string) string {
				r := []rune(s)
				if len(r) == 0 {
					return s
				}
				return string(r[:len(r)-1])
			})
		case tea.KeySpace:
			m.edit(func(s string) string { return s + " " })
		case tea.KeyRunes:
			m.edit(func(s string) string { return s + string(msg.Runes) })
		}
	}
	return m, nil
}

// edit applies f to the focused field and rebuilds the preview.
func (m *previewModel) edit(f func(string) string) {
	if m.focus == fieldName {
		m.name = f(m.name)
	} else {
		m.symbol = f(m.symbol)
	}
	m.status = ""
	m.rebuild()
}

// save returns a command writing the current logo to <symbol>.png.
func (m previewModel) save() tea.Cmd {
	if err := errors.ValidateName(m.name); err != nil {
		return func() tea.Msg { return savedMsg{err: err} }
	}
	if err := errors.ValidateSymbol(m.symbol); err != nil {
		return func() tea.Msg { return savedMsg{err: err} }
	}
	if m.result == nil {
		return nil
	}
	data := m.result.PNG
	path := defaultOutputName(m.symbol)
	return func() tea.Msg {
		return savedMsg{path: path, err: os.WriteFile(path, data, 0o644)}
	}
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("tokenlogo preview"))
	b.WriteString("\n\n")
	b.WriteString(m.fieldView("Name", m.name, m.focus == fieldName))
	b.WriteString("\n")
	b.WriteString(m.fieldView("Symbol", m.symbol, m.focus == fieldSymbol))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	} else if m.result != nil {
		b.WriteString(m.thumb)
		b.WriteString("\n")
		p := m.result.Palette
		b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
			StyleDim.Render(fmt.Sprintf("seed %d", m.result.Seed)),
			swatch(p.Primary), swatch(p.Secondary), swatch(p.Tint)))
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + previewHelpStyle.Render("tab switch field · enter save · esc quit"))
	return b.String()
}

func (m previewModel) fieldView(label, value string, active bool) string {
	cursor := " "
	style := previewFieldStyle
	if active {
		cursor = previewActiveStyle.Render("›")
		value += "█"
		style = previewActiveStyle
	}
	return cursor + " " + previewLabelStyle.Render(label) + style.Render(value)
}

// =============================================================================
// Thumbnail Rendering
// =============================================================================

// thumbnail scales src to a size×size image.
func thumbnail(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// halfBlocks renders img with one "▀" per pair of vertically adjacent
// pixels: the foreground paints the top pixel, the background the bottom.
// An odd final row is paired with the terminal default background.
func halfBlocks(img *image.RGBA) string {
	bounds := img.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexAt(img, x, y)))
			if y+1 < bounds.Max.Y {
				style = style.Background(lipgloss.Color(hexAt(img, x, y+1)))
			}
			b.WriteString(style.Render("▀"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func hexAt(img *image.RGBA, x, y int) string {
	c := img.RGBAAt(x, y)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
