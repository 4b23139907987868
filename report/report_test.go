package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/topdown/report"
	"github.com/sarchlab/topdown/topdown"
)

var minimalRatios = &topdown.Ratios{
	Groups: []topdown.Group{
		{
			Name: topdown.GroupTopDown,
			Metrics: []topdown.Metric{
				{Name: topdown.FrontendBound, Value: 0.25},
				{Name: topdown.BadSpeculation, Value: 0.05},
				{Name: topdown.Retiring, Value: 0.65},
				{Name: topdown.BackendBound, Value: 0.04999999999999993},
			},
		},
	},
}

var extendedRatios = &topdown.Ratios{
	Groups: []topdown.Group{
		{
			Name: topdown.GroupTopDown,
			Metrics: []topdown.Metric{
				{Name: topdown.FrontendBound, Value: 0.4235},
				{Name: topdown.BackendBound, Value: -0.012},
			},
		},
		{
			Name: topdown.GroupICache,
			Metrics: []topdown.Metric{
				{Name: topdown.ICacheHitRate, Value: 0.9},
				{Name: topdown.ICacheMissPenalty, Value: 50, Kind: topdown.Cycles},
			},
		},
		{
			Name: topdown.GroupBPU,
			Metrics: []topdown.Metric{
				{Name: topdown.BPUCorrectRate, Value: 0},
			},
		},
	},
}

var _ = Describe("Format", func() {
	It("should render fractions as percentages", func() {
		var buf bytes.Buffer
		Expect(report.Format(&buf, minimalRatios)).To(Succeed())
		Expect(buf.String()).To(Equal(
			"FrontendBound: 25.00%\n" +
				"BadSpeculation: 5.00%\n" +
				"Retiring: 65.00%\n" +
				"BackendBound: 5.00%\n"))
	})

	It("should separate groups and render cycles as decimals", func() {
		var buf bytes.Buffer
		Expect(report.Format(&buf, extendedRatios)).To(Succeed())

		sep := "----------------------------------------\n"
		Expect(buf.String()).To(Equal(
			"FrontendBound: 42.35%\n" +
				"BackendBound: -1.20%\n" +
				sep +
				"ICache_HitRate: 90.00%\n" +
				"ICache_MissPenalty: 50.00\n" +
				sep +
				"BPU_CorrectRate: 0.00%\n"))
	})

	It("should use a 40 character separator", func() {
		Expect(report.Separator).To(HaveLen(40))
	})
})

var _ = Describe("Writer", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should overwrite a fixed file name without timestamps", func() {
		w := report.NewWriter(dir)
		Expect(w.Path()).To(Equal(filepath.Join(dir, "topdown.txt")))

		first, err := w.Write(minimalRatios)
		Expect(err).NotTo(HaveOccurred())
		firstContent, err := os.ReadFile(first)
		Expect(err).NotTo(HaveOccurred())

		second, err := w.Write(minimalRatios)
		Expect(err).NotTo(HaveOccurred())
		secondContent, err := os.ReadFile(second)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(secondContent).To(Equal(firstContent))

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})

	It("should embed the Unix time in the file name", func() {
		now := time.Unix(1700000000, 0)
		w := report.NewWriter(dir,
			report.WithTimestamp(true),
			report.WithClock(func() time.Time { return now }),
		)

		path, err := w.Write(extendedRatios)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "topdown_1700000000.txt")))

		now = now.Add(time.Second)
		next, err := w.Write(extendedRatios)
		Expect(err).NotTo(HaveOccurred())
		Expect(next).To(Equal(filepath.Join(dir, "topdown_1700000001.txt")))

		a, _ := os.ReadFile(path)
		b, _ := os.ReadFile(next)
		Expect(a).To(Equal(b))
	})

	It("should fail when the directory does not exist", func() {
		w := report.NewWriter(filepath.Join(dir, "missing"))
		_, err := w.Write(minimalRatios)
		Expect(err).To(HaveOccurred())
	})
})
