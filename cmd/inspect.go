package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soocke/obb-label-go/domain/dataset"
	"github.com/soocke/obb-label-go/domain/labels"
	"github.com/soocke/obb-label-go/ui/presenter"
)

var (
	outputJSON bool
)

// LabelInfo is one label as reported by inspect --json.
type LabelInfo struct {
	Index   int           `json:"index"`
	ClassID int           `json:"class_id"`
	Class   string        `json:"class"`
	XCenter float64       `json:"x_center"`
	YCenter float64       `json:"y_center"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Angle   float64       `json:"angle"`
	Corners [4][2]float64 `json:"corners"`
}

// ImageInfo is the inspect --json document.
type ImageInfo struct {
	Image     string      `json:"image"`
	LabelFile string      `json:"label_file"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Labels    []LabelInfo `json:"labels"`
	Skipped   []string    `json:"skipped,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <image>",
	Short: "Show the labels of an image",
	Long: `Load the label file next to an image and print every label with its
class name and, in verbose mode, its pixel corners.

Examples:
  obblabel inspect images/0001.jpg
  obblabel inspect --json images/0001.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	img := args[0]
	w, h, err := dataset.ImageSize(img)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	labelPath := dataset.LabelPathFor(img)
	doc, skipped, err := labels.LoadDocument(labelPath, w, h)
	if err != nil {
		return fmt.Errorf("failed to load labels: %w", err)
	}
	classes := labels.NewClassTable(cfg.Classes)

	info := ImageInfo{Image: img, LabelFile: labelPath, Width: w, Height: h, Labels: []LabelInfo{}}
	for i, l := range doc.Labels {
		li := LabelInfo{
			Index: i, ClassID: l.ClassID, Class: classes.Name(l.ClassID),
			XCenter: l.XCenter, YCenter: l.YCenter, Width: l.Width, Height: l.Height, Angle: l.Angle,
		}
		for j, c := range l.Pixels(w, h).Corners() {
			li.Corners[j] = [2]float64{c.X, c.Y}
		}
		info.Labels = append(info.Labels, li)
	}
	for _, le := range skipped {
		info.Skipped = append(info.Skipped, le.Error())
	}

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("Image:  %s (%dx%d)\n", info.Image, info.Width, info.Height)
	fmt.Printf("Labels: %s (%d)\n", info.LabelFile, len(info.Labels))
	for i, l := range doc.Labels {
		fmt.Printf("  %s\n", presenter.RowText(i, classes.Name(l.ClassID), l))
		if verbose {
			c := info.Labels[i].Corners
			fmt.Printf("     corners: (%.1f,%.1f) (%.1f,%.1f) (%.1f,%.1f) (%.1f,%.1f)\n",
				c[0][0], c[0][1], c[1][0], c[1][1], c[2][0], c[2][1], c[3][0], c[3][1])
		}
	}
	for _, s := range info.Skipped {
		fmt.Printf("  skipped %s\n", s)
	}
	return nil
}
