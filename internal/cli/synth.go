package cli

import (
	"fmt"
	stdio "io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/io"
)

// synthCommand creates the synth command for single images.
func (c *CLI) synthCommand() *cobra.Command {
	var (
		flags    renderFlags
		output   string
		textFile string
		sidecar  bool
	)

	cmd := &cobra.Command{
		Use:   "synth [text]",
		Short: "Synthesize one degraded text image",
		Long: `Render text, apply the stages of a condition profile and write the image.

Text is taken from the argument, from --file, or from stdin when neither is
given. The same text, condition and seed always produce the same image.`,
		Example: `  ocrsynth synth "Guten Morgen" -c noisy --seed 7 -o morning.png
  ocrsynth synth -f letter.txt -c scanned --lang deu -o letter.tiff --sidecar`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args, textFile)
			if err != nil {
				return err
			}
			var format io.Format
			output, format, err = resolveOutput(flags.format, output, flags.condition)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			req := flags.request()
			req.Text = text
			spinner := newSpinnerWithContext(cmd.Context(), "Synthesizing...")
			spinner.Start()
			res, err := runner.Synthesize(cmd.Context(), req, flags.condition, flags.seed, format)
			spinner.Stop()
			if err != nil {
				return err
			}

			if err := io.WriteFile(output, res.Image); err != nil {
				return err
			}
			printSuccess("Synthesized %s", StyleHighlight.Render(flags.condition))
			printFile(output)
			if sidecar {
				path := io.SidecarPath(output)
				if err := io.ExportProvenance(path, res.Provenance); err != nil {
					return err
				}
				printFile(path)
			}
			printStats(res.Provenance, res.CacheHit)
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <condition> plus the format's extension)")
	cmd.Flags().StringVarP(&textFile, "file", "f", "", "read text from a file")
	cmd.Flags().BoolVar(&sidecar, "sidecar", false, "write a provenance JSON next to the image")

	return cmd
}

// readText returns the text to render from args, a file or stdin.
func readText(args []string, file string) (string, error) {
	var text string
	switch {
	case len(args) == 1 && file != "":
		return "", errors.New(errors.ErrCodeInvalidInput, "give text as an argument or --file, not both")
	case len(args) == 1:
		text = args[0]
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		text = string(data)
	default:
		data, err := readStdin()
		if err != nil {
			return "", err
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no text to synthesize")
	}
	return text, nil
}

func readStdin() ([]byte, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat stdin: %w", err)
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no text given (pass an argument, --file or pipe stdin)")
	}
	data, err := stdio.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// resolveOutput picks the output path and format. Without an output path
// the file is named after the condition with the format's extension.
func resolveOutput(flag, output, condition string) (string, io.Format, error) {
	if output != "" {
		f, err := resolveFormat(flag, output)
		return output, f, err
	}
	f, err := io.ParseFormat(flag)
	if err != nil {
		return "", "", err
	}
	return condition + f.Extension(), f, nil
}

// resolveFormat prefers an explicit --format, then the output extension.
// A path without an extension gets PNG.
func resolveFormat(flag, output string) (io.Format, error) {
	if flag != "" {
		return io.ParseFormat(flag)
	}
	return io.FormatFromPath(output)
}
