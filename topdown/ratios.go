// Package topdown derives Top-Down ratios and cache/branch predictor
// statistics from extracted counters.
package topdown

// Kind describes how a metric value is interpreted.
type Kind int

const (
	// Fraction is a ratio, normally in [0, 1].
	Fraction Kind = iota
	// Cycles is an average cycle count.
	Cycles
)

// Metric is one derived value.
type Metric struct {
	Name  string
	Value float64
	Kind  Kind
}

// Group is an ordered list of related metrics.
type Group struct {
	Name    string
	Metrics []Metric
}

// Ratios is the derived metric set, grouped in report order.
type Ratios struct {
	Groups []Group
}

// Get returns the value of the named metric.
func (r *Ratios) Get(name string) (float64, bool) {
	for _, g := range r.Groups {
		for _, m := range g.Metrics {
			if m.Name == name {
				return m.Value, true
			}
		}
	}
	return 0, false
}

// Group names.
const (
	GroupTopDown = "TopDown"
	GroupICache  = "ICache"
	GroupDCache  = "DCache"
	GroupBPU     = "BPU"
)

// Metric names.
const (
	FrontendBound                = "FrontendBound"
	BadSpeculation               = "BadSpeculation"
	Retiring                     = "Retiring"
	BackendBound                 = "BackendBound"
	FrontendBoundMiss            = "FrontendBound_Miss"
	FrontendBoundUnalign         = "FrontendBound_Unalign"
	FrontendBoundRedirectResteer = "FrontendBound_RedirectResteer"
	ICacheHitRate                = "ICache_HitRate"
	ICacheMissPenalty            = "ICache_MissPenalty"
	DCacheHitRate                = "DCache_HitRate"
	DCacheMissPenalty            = "DCache_MissPenalty"
	BPUCorrectRate               = "BPU_CorrectRate"
)
