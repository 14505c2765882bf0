package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soocke/obb-label-go/config"
	"github.com/soocke/obb-label-go/domain/dataset"
)

var (
	progressSync bool
)

var progressCmd = &cobra.Command{
	Use:   "progress <dir>",
	Short: "Show how many images are labeled",
	Long: `Count the images of a directory that have a label file and name the
first one still to do.

Examples:
  obblabel progress images/
  obblabel progress --sync images/     # Also rewrite the progress file`,
	Args: cobra.ExactArgs(1),
	RunE: runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)

	progressCmd.Flags().BoolVar(&progressSync, "sync", false,
		"rebuild the progress file from the label files on disk")
}

func runProgress(cmd *cobra.Command, args []string) error {
	d, err := dataset.Scan(args[0])
	if err != nil {
		return fmt.Errorf("failed to scan images: %w", err)
	}
	fmt.Println(d.Progress())
	if i, ok := d.FirstUnlabeled(); ok {
		fmt.Printf("Next unlabeled: %s (%d/%d)\n", d.Images[i], i+1, d.Len())
	} else {
		fmt.Println("All images are labeled")
	}
	if verbose {
		for i, name := range d.Images {
			if !d.Labeled(i) {
				fmt.Printf("  - %s\n", name)
			}
		}
	}
	if !progressSync {
		return nil
	}
	p := &config.Progress{}
	for _, name := range d.LabeledSet() {
		p.Mark(name)
	}
	path := cfg.ProgressPath(cfgPath)
	if err := p.Save(path); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	fmt.Printf("Progress saved to %s\n", path)
	return nil
}
