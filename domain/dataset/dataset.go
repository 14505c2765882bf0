// Package dataset lists the images of a labeling directory and tracks which
// of them already have a label file.
package dataset

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Extensions lists the image file extensions picked up by Scan.
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp"}

// ErrEmpty is returned by Scan for a directory without images.
var ErrEmpty = errors.New("no image files found in directory")

// Dataset is an ordered list of image files in one directory.
type Dataset struct {
	Dir    string
	Images []string // base names, sorted
}

// IsImage reports whether name has one of Extensions, ignoring case.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan lists the images in dir.
func Scan(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	d := &Dataset{Dir: dir}
	for _, e := range entries {
		if !e.IsDir() && IsImage(e.Name()) {
			d.Images = append(d.Images, e.Name())
		}
	}
	if len(d.Images) == 0 {
		return d, fmt.Errorf("scan %s: %w", dir, ErrEmpty)
	}
	sort.Strings(d.Images)
	return d, nil
}

// Len returns the number of images.
func (d *Dataset) Len() int { return len(d.Images) }

// ImagePath returns the full path of image i.
func (d *Dataset) ImagePath(i int) string { return filepath.Join(d.Dir, d.Images[i]) }

// LabelPath returns the label file path for image i: same directory and
// base name with a .txt extension.
func (d *Dataset) LabelPath(i int) string {
	return LabelPathFor(d.ImagePath(i))
}

// LabelPathFor maps an image path to its label file path.
func LabelPathFor(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
}

// Labeled reports whether image i has a label file on disk.
func (d *Dataset) Labeled(i int) bool {
	_, err := os.Stat(d.LabelPath(i))
	return err == nil
}

// FirstUnlabeled returns the first image without a label file.
func (d *Dataset) FirstUnlabeled() (int, bool) {
	for i := range d.Images {
		if !d.Labeled(i) {
			return i, true
		}
	}
	return 0, false
}

// NextUnlabeled searches after from, then wraps to the start. The second
// result reports a wrap; the third whether anything was found.
func (d *Dataset) NextUnlabeled(from int) (int, bool, bool) {
	for i := from + 1; i < len(d.Images); i++ {
		if !d.Labeled(i) {
			return i, false, true
		}
	}
	for i := 0; i < from && i < len(d.Images); i++ {
		if !d.Labeled(i) {
			return i, true, true
		}
	}
	return 0, false, false
}

// LabeledSet returns the names of images that have a label file.
func (d *Dataset) LabeledSet() []string {
	var out []string
	for i, name := range d.Images {
		if d.Labeled(i) {
			out = append(out, name)
		}
	}
	return out
}

// Progress summarizes how many images are labeled.
type Progress struct {
	Labeled int
	Total   int
}

// Percent returns the labeled share in percent, 0 for an empty dataset.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Labeled) / float64(p.Total) * 100
}

func (p Progress) String() string {
	return fmt.Sprintf("Progress: %d/%d (%.1f%%)", p.Labeled, p.Total, p.Percent())
}

// Progress counts labeled images using the label files on disk.
func (d *Dataset) Progress() Progress {
	return Progress{Labeled: len(d.LabeledSet()), Total: len(d.Images)}
}

// ImageSize reads only the image header to get its pixel dimensions.
func ImageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("read image size %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
