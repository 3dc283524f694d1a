package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/io"
	"github.com/matzehuels/ocrsynth/pkg/pipeline"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags     renderFlags
		outDir    string
		workers   int
		failFast  bool
		recursive bool
		pattern   string
	)

	cmd := &cobra.Command{
		Use:   "batch <input>",
		Short: "Synthesize images for every item of an input",
		Long: `Synthesize one image per input item and write images, provenance sidecars
and a manifest.csv to the output directory.

The input is one of:
  - a directory of text files (one item per file, ID = file name)
  - a CSV file (one item per non-empty cell, ID = <row>_<column>)
  - any other file (one item per non-blank line, ID = line-NNNN)

Each item is seeded from --seed and its ID, so an item reproduces the same
image regardless of which batch it runs in.`,
		Example: `  ocrsynth batch corpus/ -c scanned -o out/ -j 8
  ocrsynth batch headlines.csv -c blackletter --lang deu --format tiff`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := io.Load(args[0], io.LoadOptions{Pattern: pattern, Recursive: recursive})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no items found in %s", args[0])
			}
			format, err := io.ParseFormat(flags.format)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			res, err := runner.Batch(cmd.Context(), items, pipeline.Options{
				Request:   flags.request(),
				Condition: flags.condition,
				Seed:      flags.seed,
				Format:    format,
				OutDir:    outDir,
				Workers:   workers,
				FailFast:  failFast,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Synthesized %d images", res.Succeeded))

			printSuccess("Batch %s complete", StyleDim.Render(res.RunID[:8]))
			printKeyValue("condition", flags.condition)
			printKeyValue("succeeded", StyleNumber.Render(fmt.Sprint(res.Succeeded)))
			if res.Failed > 0 {
				printKeyValue("failed", StyleWarning.Render(fmt.Sprint(res.Failed)))
			}
			printFile(res.Manifest)
			if res.Failed > 0 {
				printWarning("%d items failed; see the error column of the manifest", res.Failed)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&outDir, "output", "o", "out", "output directory")
	cmd.Flags().IntVarP(&workers, "jobs", "j", pipeline.DefaultWorkers, "concurrent workers")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failed item")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories of a directory input")
	cmd.Flags().StringVar(&pattern, "pattern", "*.txt", "file pattern for a directory input")

	return cmd
}
