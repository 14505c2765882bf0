package labels

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrIO wraps every open/read/write failure of a label or class file.
	ErrIO = errors.New("label file i/o")
	// ErrNoLabel reports an index outside the document.
	ErrNoLabel = errors.New("no such label")
	// ErrNoClass reports an index outside the class table.
	ErrNoClass = errors.New("no such class")
	// ErrEmptyClass reports a blank class name.
	ErrEmptyClass = errors.New("empty class name")
)

// LineError describes a label line that was skipped during parsing.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

var errTooFewFields = errors.New("fewer than 5 fields")

// ReadLabels parses the label text format. Malformed lines are skipped and
// reported in the second return value; only reader failures are errors.
// Values are returned as written, without clamping.
func ReadLabels(r io.Reader) ([]Label, []*LineError, error) {
	var out []Label
	var skipped []*LineError
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := sc.Text()
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		l, err := parseLine(fields)
		if err != nil {
			skipped = append(skipped, &LineError{Line: n, Text: text, Err: err})
			continue
		}
		out = append(out, l)
	}
	return out, skipped, sc.Err()
}

func parseLine(fields []string) (Label, error) {
	if len(fields) < 5 {
		return Label{}, errTooFewFields
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Label{}, err
	}
	var v [5]float64
	for i := 1; i < 5; i++ {
		if v[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
			return Label{}, err
		}
	}
	if len(fields) > 5 {
		if v[0], err = strconv.ParseFloat(fields[5], 64); err != nil {
			return Label{}, err
		}
	}
	return Label{ClassID: id, XCenter: v[1], YCenter: v[2], Width: v[3], Height: v[4], Angle: v[0]}, nil
}

// WriteLabels writes one line per label with 6 decimal places.
func WriteLabels(w io.Writer, ls []Label) error {
	bw := bufio.NewWriter(w)
	for _, l := range ls {
		if _, err := fmt.Fprintf(bw, "%d %.6f %.6f %.6f %.6f %.6f\n",
			l.ClassID, l.XCenter, l.YCenter, l.Width, l.Height, l.Angle); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadDocument reads path into a document for an image of the given size.
// A missing file yields an empty document. Labels are clamped on the way in.
func LoadDocument(path string, imageW, imageH int) (*Document, []*LineError, error) {
	doc := &Document{ImageWidth: imageW, ImageHeight: imageH}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	ls, skipped, err := ReadLabels(f)
	if err != nil {
		return nil, skipped, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	for _, l := range ls {
		doc.Labels = append(doc.Labels, l.Clamped())
	}
	return doc, skipped, nil
}

// SaveDocument overwrites path with the labels of doc. A failed write may
// leave a partial file behind.
func SaveDocument(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	var labels []Label
	if doc != nil {
		labels = doc.Labels
	}
	if err := WriteLabels(f, labels); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	return nil
}

// LoadClasses reads a class list file.
func LoadClasses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	names, err := ReadClasses(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	return names, nil
}

// SaveClasses overwrites path with one class name per line.
func SaveClasses(path string, names []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := WriteClasses(f, names); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	return nil
}
