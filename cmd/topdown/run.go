package main

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/topdown/config"
	"github.com/sarchlab/topdown/counters"
	"github.com/sarchlab/topdown/report"
	"github.com/sarchlab/topdown/topdown"
)

// run extracts counters from the configured log, derives the ratios and
// writes the report. It returns the report path.
func run(cfg *config.Config, logger logrus.FieldLogger, writerOpts ...report.WriterOption) (string, error) {
	extractor := counters.NewExtractor(counters.WithLogger(logger))
	c, err := extractor.ReadFile(cfg.InputPath())
	if err != nil {
		return "", err
	}

	opts := append(cfg.CalculatorOptions(), topdown.WithLogger(logger))
	ratios, err := topdown.NewCalculator(opts...).Compute(c)
	if err != nil {
		return "", err
	}

	writerOpts = append([]report.WriterOption{report.WithTimestamp(cfg.Timestamped())}, writerOpts...)
	return report.NewWriter(cfg.OutputDir(), writerOpts...).Write(ratios)
}
