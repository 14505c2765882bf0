package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soocke/obb-label-go/domain/dataset"
	"github.com/soocke/obb-label-go/domain/labels"
)

var (
	normalizeDryRun bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <dir>",
	Short: "Rewrite label files in canonical form",
	Long: `Load every label file of an image directory and write it back with
clamped values and six decimals. Malformed lines are dropped.

Examples:
  obblabel normalize images/
  obblabel normalize --dry-run -v images/`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().BoolVarP(&normalizeDryRun, "dry-run", "n", false,
		"report what would change without writing")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	d, err := dataset.Scan(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan images: %w", err)
	}
	files, dropped := 0, 0
	for i := range d.Images {
		if !d.Labeled(i) {
			continue
		}
		w, h, err := dataset.ImageSize(d.ImagePath(i))
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		doc, skipped, err := labels.LoadDocument(d.LabelPath(i), w, h)
		if err != nil {
			return fmt.Errorf("failed to load labels: %w", err)
		}
		if verbose || len(skipped) > 0 {
			fmt.Printf("%s: %d labels, %d dropped\n", d.Images[i], len(doc.Labels), len(skipped))
		}
		for _, le := range skipped {
			logger.Debug("label line dropped", "image", d.Images[i], "line", le.Line, "error", le.Err)
		}
		files++
		dropped += len(skipped)
		if normalizeDryRun {
			continue
		}
		if err := labels.SaveDocument(d.LabelPath(i), doc); err != nil {
			return fmt.Errorf("failed to save labels: %w", err)
		}
	}
	verb := "Normalized"
	if normalizeDryRun {
		verb = "Would normalize"
	}
	fmt.Printf("%s %d label files (%d lines dropped)\n", verb, files, dropped)
	return nil
}
