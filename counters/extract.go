package counters

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Kind selects how a family's matches are stored.
type Kind int

const (
	// Scalar matches capture (name, value). The last value wins.
	Scalar Kind = iota
	// Branch matches capture (outcome, source, value). Values are summed.
	Branch
)

// Family is a named pattern that recognizes one group of counters.
type Family struct {
	Name    string
	Kind    Kind
	Pattern *regexp.Regexp
	// Target selects the Set a Scalar family writes into.
	Target func(c *Counters) Set
}

// DefaultFamilies returns the topdown, icache, dcache and bpu families.
func DefaultFamilies() []Family {
	return []Family{
		{
			Name:    "topdown",
			Kind:    Scalar,
			Pattern: regexp.MustCompile(`topdown_(\w+):\s*(\d+)`),
			Target:  func(c *Counters) Set { return c.TopDown },
		},
		{
			Name:    "icache",
			Kind:    Scalar,
			Pattern: regexp.MustCompile(`icache_(\w+):\s*(\d+)`),
			Target:  func(c *Counters) Set { return c.ICache },
		},
		{
			Name:    "dcache",
			Kind:    Scalar,
			Pattern: regexp.MustCompile(`dcache_(\w+):\s*(\d+)`),
			Target:  func(c *Counters) Set { return c.DCache },
		},
		{
			Name:    "bpu",
			Kind:    Branch,
			Pattern: regexp.MustCompile(`bpu_([a-z]+)_(\w+):\s*(\d+)`),
		},
	}
}

// ExtractorOption is a functional option for configuring the Extractor.
type ExtractorOption func(*Extractor)

// WithFamilies replaces the default pattern families.
func WithFamilies(families ...Family) ExtractorOption {
	return func(e *Extractor) {
		e.families = families
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logrus.FieldLogger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// Extractor scans log lines and accumulates counters.
type Extractor struct {
	families []Family
	logger   logrus.FieldLogger
}

// NewExtractor creates an Extractor using the default families unless
// overridden.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Extractor{
		families: DefaultFamilies(),
		logger:   discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReadFile scans the log at path. The file is closed on every return path.
func (e *Extractor) ReadFile(path string) (*Counters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputNotFoundError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	c, err := e.Scan(f)
	if err != nil {
		var malformed *MalformedNumberError
		if errors.As(err, &malformed) {
			return nil, errors.Wrapf(err, "scanning %s", path)
		}
		return nil, &InputNotFoundError{Path: path, Err: err}
	}

	e.logger.WithFields(logrus.Fields{
		"path":    path,
		"topdown": len(c.TopDown),
		"icache":  len(c.ICache),
		"dcache":  len(c.DCache),
		"bpu":     c.BPU.Len(),
	}).Debug("extracted counters")

	return c, nil
}

// Scan reads r line by line and applies every family to every line.
func (e *Extractor) Scan(r io.Reader) (*Counters, error) {
	c := New()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		for i := range e.families {
			if err := e.apply(c, &e.families[i], line, lineNo); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading log")
	}

	return c, nil
}

// apply records every match of family f on line.
func (e *Extractor) apply(c *Counters, f *Family, line string, lineNo int) error {
	for _, m := range f.Pattern.FindAllStringSubmatch(line, -1) {
		raw := m[len(m)-1]
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return &MalformedNumberError{Line: lineNo, Value: raw, Err: err}
		}

		switch f.Kind {
		case Scalar:
			f.Target(c)[m[1]] = value
		case Branch:
			c.BPU.Add(m[1], m[2], value)
		}
	}
	return nil
}
