package config

import (
	"encoding/json"
	"os"
	"sort"
)

// Progress records the images whose labels were saved at least once.
type Progress struct {
	LabeledImages []string `json:"labeled_images"`
}

// Mark adds name if it is not already recorded.
func (p *Progress) Mark(name string) bool {
	for _, n := range p.LabeledImages {
		if n == name {
			return false
		}
	}
	p.LabeledImages = append(p.LabeledImages, name)
	sort.Strings(p.LabeledImages)
	return true
}

// Has reports whether name is recorded.
func (p *Progress) Has(name string) bool {
	for _, n := range p.LabeledImages {
		if n == name {
			return true
		}
	}
	return false
}

// LoadProgress reads the progress file. A missing or unreadable file yields
// an empty record; decode failures are returned alongside it.
func LoadProgress(path string) (*Progress, error) {
	p := &Progress{}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(p); err != nil {
		return &Progress{}, err
	}
	return p, nil
}

// Save writes the progress record as indented JSON.
func (p *Progress) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
