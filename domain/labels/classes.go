package labels

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultClass is used when no class names are configured.
const DefaultClass = "object"

// ClassTable is the ordered list of class names. A label's ClassID is a
// loose index into it; removing a class never renumbers existing labels.
type ClassTable struct {
	names    []string
	selected int
}

// NewClassTable returns a table holding names, or DefaultClass when empty.
func NewClassTable(names []string) *ClassTable {
	t := &ClassTable{selected: -1}
	t.Replace(names)
	return t
}

// Replace swaps the whole name list and clears the selection.
func (t *ClassTable) Replace(names []string) {
	t.names = t.names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			t.names = append(t.names, n)
		}
	}
	if len(t.names) == 0 {
		t.names = append(t.names, DefaultClass)
	}
	t.selected = -1
}

// Names returns a copy of the class names.
func (t *ClassTable) Names() []string { return append([]string(nil), t.names...) }

// Len returns the number of classes.
func (t *ClassTable) Len() int { return len(t.names) }

// Add appends a trimmed class name and returns its id. Blank names are
// rejected with ErrEmptyClass.
func (t *ClassTable) Add(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1, ErrEmptyClass
	}
	t.names = append(t.names, name)
	return len(t.names) - 1, nil
}

// Remove deletes the class at i. Labels referring to later ids keep them.
func (t *ClassTable) Remove(i int) error {
	if i < 0 || i >= len(t.names) {
		return fmt.Errorf("class %d: %w", i, ErrNoClass)
	}
	t.names = append(t.names[:i], t.names[i+1:]...)
	switch {
	case t.selected == i:
		t.selected = -1
	case t.selected > i:
		// keep the same name selected
		t.selected--
	}
	return nil
}

// Name returns the display name for id; unknown ids render as "Class <id>".
func (t *ClassTable) Name(id int) string {
	if id >= 0 && id < len(t.names) {
		return t.names[id]
	}
	return fmt.Sprintf("Class %d", id)
}

// Select marks id as the class for newly drawn labels. -1 clears.
func (t *ClassTable) Select(id int) error {
	if id < -1 || id >= len(t.names) {
		return fmt.Errorf("class %d: %w", id, ErrNoClass)
	}
	t.selected = id
	return nil
}

// Selected returns the selected class id or -1.
func (t *ClassTable) Selected() int { return t.selected }

// Active returns the class id new labels should use: the selection, or 0.
func (t *ClassTable) Active() int {
	if t.selected < 0 {
		return 0
	}
	return t.selected
}

// ReadClasses parses a class list file, one name per line. Blank lines are skipped.
func ReadClasses(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if n := strings.TrimSpace(sc.Text()); n != "" {
			names = append(names, n)
		}
	}
	return names, sc.Err()
}

// WriteClasses writes one name per line.
func WriteClasses(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, n := range names {
		if _, err := fmt.Fprintln(bw, n); err != nil {
			return err
		}
	}
	return bw.Flush()
}
