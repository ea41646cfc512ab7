package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tokenlogo/pkg/core/pngenc"
	"github.com/matzehuels/tokenlogo/pkg/errors"
	"github.com/matzehuels/tokenlogo/pkg/logo"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	name   string // expected token name
	symbol string // expected token symbol
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <file.png>",
		Short: "Show the chunk layout of a PNG and verify checksums",
		Long: `Inspect parses a PNG container, lists its chunks with their offsets and
CRC-32 checksums, and decodes the IHDR header.

With --name and --symbol it also regenerates the logo and reports whether
the file matches byte for byte.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.name == "") != (opts.symbol == "") {
				return fmt.Errorf("--name and --symbol must be used together")
			}
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "verify against the logo for this token name")
	cmd.Flags().StringVar(&opts.symbol, "symbol", "", "verify against the logo for this token symbol")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, opts inspectOpts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	chunks, readErr := pngenc.ReadChunks(data)
	if len(chunks) == 0 && readErr != nil {
		return readErr
	}

	printInfo("%s %s", StyleValue.Render(path), StyleDim.Render(formatBytes(len(data))))
	fmt.Fprintln(stdout, chunkTable(chunks))

	if hdr, err := pngenc.ParseHeader(chunks[0]); err == nil {
		printKeyValue("Size", fmt.Sprintf("%d×%d", hdr.Width, hdr.Height))
		printKeyValue("Bit depth", fmt.Sprintf("%d", hdr.BitDepth))
		printKeyValue("Color type", colorTypeName(hdr.ColorType))
		printKeyValue("Interlace", fmt.Sprintf("%d", hdr.Interlace))
	} else {
		printWarning("%v", err)
	}
	printNewline()

	if readErr != nil {
		return readErr
	}
	printSuccess("All %d chunk checksums valid", len(chunks))

	if opts.name == "" {
		return nil
	}
	loggerFromContext(ctx).Debug("regenerating for comparison", "name", opts.name, "symbol", opts.symbol)
	want, err := logo.Generate(opts.name, opts.symbol)
	if err != nil {
		return err
	}
	if !bytes.Equal(data, want) {
		printError("File does not match the logo for %s (%s)", opts.name, opts.symbol)
		return errors.New(errors.ErrCodeInvalidFormat, "%s is not the logo for %s (%s)", path, opts.name, opts.symbol)
	}
	printSuccess("Matches the logo for %s (%s)", StyleHighlight.Render(opts.name), StyleHighlight.Render(opts.symbol))
	return nil
}

// chunkTable renders chunks as a bordered table. Rows with a checksum
// mismatch are highlighted.
func chunkTable(chunks []pngenc.Chunk) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(chunks))
	for i, ch := range chunks {
		status := iconSuccess
		if !ch.Valid() {
			status = iconError
		}
		rows[i] = []string{
			ch.Type,
			fmt.Sprintf("%d", ch.Offset),
			fmt.Sprintf("%d", len(ch.Data)),
			fmt.Sprintf("%08x", ch.CRC),
			status,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Type", "Offset", "Length", "CRC", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(chunks) && !chunks[row].Valid() {
				return cellStyle.Foreground(colorRed)
			}
			if col == 4 {
				return cellStyle.Foreground(colorGreen)
			}
			return cellStyle.Foreground(colorWhite)
		}).
		String()
}

func colorTypeName(t uint8) string {
	switch t {
	case 0:
		return "0 (grayscale)"
	case 2:
		return "2 (truecolor)"
	case 3:
		return "3 (indexed)"
	case 4:
		return "4 (grayscale + alpha)"
	case 6:
		return "6 (truecolor + alpha)"
	}
	return fmt.Sprintf("%d (unknown)", t)
}
