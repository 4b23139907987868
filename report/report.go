// Package report writes derived Top-Down metrics as a plain-text report.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sarchlab/topdown/topdown"
)

// Separator is written between metric groups.
var Separator = strings.Repeat("-", 40)

// FormatValue renders a metric value: fractions as a percentage with two
// decimals, cycle counts as a plain decimal with two decimals.
func FormatValue(m topdown.Metric) string {
	if m.Kind == topdown.Cycles {
		return fmt.Sprintf("%.2f", m.Value)
	}
	return fmt.Sprintf("%.2f%%", m.Value*100)
}

// Format writes r to w, one "<Name>: <value>" line per metric.
func Format(w io.Writer, r *topdown.Ratios) error {
	bw := bufio.NewWriter(w)
	for i, g := range r.Groups {
		if i > 0 {
			if _, err := fmt.Fprintln(bw, Separator); err != nil {
				return err
			}
		}
		for _, m := range g.Metrics {
			if _, err := fmt.Fprintf(bw, "%s: %s\n", m.Name, FormatValue(m)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriterOption is a functional option for configuring the Writer.
type WriterOption func(*Writer)

// WithTimestamp embeds the Unix time in the file name so earlier reports
// are kept.
func WithTimestamp(enabled bool) WriterOption {
	return func(w *Writer) {
		w.timestamp = enabled
	}
}

// WithClock sets the time source used for timestamped file names.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		w.now = now
	}
}

// Writer writes reports into a directory.
type Writer struct {
	dir       string
	timestamp bool
	now       func() time.Time
}

// NewWriter creates a Writer that writes into dir.
func NewWriter(dir string, opts ...WriterOption) *Writer {
	w := &Writer{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the file the next Write will create.
func (w *Writer) Path() string {
	name := "topdown.txt"
	if w.timestamp {
		name = "topdown_" + strconv.FormatInt(w.now().Unix(), 10) + ".txt"
	}
	return filepath.Join(w.dir, name)
}

// Write creates the report file and returns its path. The file is closed
// on every return path.
func (w *Writer) Write(r *topdown.Ratios) (path string, err error) {
	path = w.Path()

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating report")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing report")
		}
	}()

	if err := Format(f, r); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}
