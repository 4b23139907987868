package topdown

import (
	"io"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/topdown/counters"
)

// operand names one counter in a Counters.
type operand struct {
	family string // "topdown", "icache", "dcache" or "bpu"
	name   string // counter name, or outcome for bpu
	source string // bpu only
}

func (o operand) String() string {
	if o.family == "bpu" {
		return "bpu_" + o.name + "_" + o.source
	}
	return o.family + "_" + o.name
}

func (o operand) lookup(c *counters.Counters) (uint64, bool) {
	switch o.family {
	case "topdown":
		return c.TopDown.Get(o.name)
	case "icache":
		return c.ICache.Get(o.name)
	case "dcache":
		return c.DCache.Get(o.name)
	case "bpu":
		return c.BPU.Count(o.name, o.source)
	}
	return 0, false
}

type term struct {
	op   operand
	sign float64
}

func plus(family, name string) term { return term{op: operand{family: family, name: name}, sign: 1} }
func minus(family, name string) term { return term{op: operand{family: family, name: name}, sign: -1} }

// ratioDef is sum(num) / sum(den).
type ratioDef struct {
	name string
	kind Kind
	num  []term
	den  []term
}

func (d ratioDef) operands() []operand {
	ops := make([]operand, 0, len(d.num)+len(d.den))
	for _, t := range d.num {
		ops = append(ops, t.op)
	}
	for _, t := range d.den {
		ops = append(ops, t.op)
	}
	return ops
}

// groupDef lists the ratios of one report group. BackendBound is appended
// to the TopDown group as a residual and has no ratioDef.
type groupDef struct {
	name   string
	ratios []ratioDef
}

// CalculatorOption is a functional option for configuring the Calculator.
type CalculatorOption func(*Calculator)

// WithVariant selects the metric set.
func WithVariant(v Variant) CalculatorOption {
	return func(c *Calculator) {
		c.variant = v
	}
}

// WithBadSpecFormula selects the BadSpeculation formula.
func WithBadSpecFormula(f BadSpecFormula) CalculatorOption {
	return func(c *Calculator) {
		c.badSpec = f
	}
}

// WithPolicy overrides the zero-denominator policy of one ratio.
func WithPolicy(metric string, p Policy) CalculatorOption {
	return func(c *Calculator) {
		c.policies[metric] = p
	}
}

// WithBPUSource sets the branch source used for BPU_CorrectRate.
func WithBPUSource(source string) CalculatorOption {
	return func(c *Calculator) {
		c.bpuSource = source
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger logrus.FieldLogger) CalculatorOption {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// Calculator derives Ratios from Counters.
type Calculator struct {
	variant   Variant
	badSpec   BadSpecFormula
	policies  map[string]Policy
	bpuSource string
	logger    logrus.FieldLogger
}

// NewCalculator creates a Calculator for the extended variant using
// BadSpecV2 and DefaultPolicies.
func NewCalculator(opts ...CalculatorOption) *Calculator {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Calculator{
		variant:   Extended,
		badSpec:   BadSpecV2,
		policies:  DefaultPolicies(),
		bpuSource: "exu",
		logger:    discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the zero-denominator policy applied to metric.
func (c *Calculator) Policy(metric string) Policy {
	return c.policies[metric]
}

func (c *Calculator) groups() []groupDef {
	badSpecNum := []term{plus("topdown", "SlotsIssued"), minus("topdown", "SlotsRetired")}
	if c.badSpec == BadSpecV1 {
		badSpecNum = append(badSpecNum, plus("topdown", "RecoveryBubbles"))
	}
	totalSlots := []term{plus("topdown", "TotalSlots")}

	topDown := groupDef{
		name: GroupTopDown,
		ratios: []ratioDef{
			{name: FrontendBound, num: []term{plus("topdown", "FetchBubbles")}, den: totalSlots},
			{name: BadSpeculation, num: badSpecNum, den: totalSlots},
			{name: Retiring, num: []term{plus("topdown", "SlotsRetired")}, den: totalSlots},
		},
	}
	if c.variant == Minimal {
		return []groupDef{topDown}
	}

	fetchBubbles := []term{plus("topdown", "FetchBubbles")}
	topDown.ratios = append(topDown.ratios,
		ratioDef{name: FrontendBoundMiss, num: []term{plus("topdown", "FetchMissBubbles")}, den: fetchBubbles},
		ratioDef{name: FrontendBoundUnalign, num: []term{plus("topdown", "FetchUnalignBubbles")}, den: fetchBubbles},
		ratioDef{name: FrontendBoundRedirectResteer, num: []term{plus("topdown", "RedirectResteerBubbles")}, den: fetchBubbles},
	)

	exu := func(outcome string) term {
		return term{op: operand{family: "bpu", name: outcome, source: c.bpuSource}, sign: 1}
	}

	return []groupDef{
		topDown,
		cacheGroup(GroupICache, "icache", ICacheHitRate, ICacheMissPenalty),
		cacheGroup(GroupDCache, "dcache", DCacheHitRate, DCacheMissPenalty),
		{
			name: GroupBPU,
			ratios: []ratioDef{
				{name: BPUCorrectRate, num: []term{exu("correct")}, den: []term{exu("correct"), exu("wrong")}},
			},
		},
	}
}

func cacheGroup(group, family, hitRate, missPenalty string) groupDef {
	return groupDef{
		name: group,
		ratios: []ratioDef{
			{name: hitRate, num: []term{plus(family, "hit")}, den: []term{plus(family, "hit"), plus(family, "miss")}},
			{name: missPenalty, kind: Cycles, num: []term{plus(family, "miss_penalty_tot")}, den: []term{plus(family, "miss")}},
		},
	}
}

// Compute derives every ratio of the configured variant. Counters needed by
// a FailOnZero ratio must all be present; every missing one is reported in a
// single MissingCounterError.
func (c *Calculator) Compute(ctr *counters.Counters) (*Ratios, error) {
	groups := c.groups()

	if err := c.checkMissing(ctr, groups); err != nil {
		return nil, err
	}

	ratios := &Ratios{}
	for _, g := range groups {
		out := Group{Name: g.name}
		for _, d := range g.ratios {
			v, err := c.eval(ctr, d)
			if err != nil {
				return nil, err
			}
			out.Metrics = append(out.Metrics, Metric{Name: d.name, Value: v, Kind: d.kind})
		}

		if g.name == GroupTopDown {
			out.Metrics = insertBackendBound(out.Metrics)
		}
		ratios.Groups = append(ratios.Groups, out)
	}

	for _, g := range ratios.Groups {
		for _, m := range g.Metrics {
			c.logger.WithFields(logrus.Fields{
				"group":  g.Name,
				"metric": m.Name,
				"value":  m.Value,
			}).Debug("derived metric")
		}
	}

	return ratios, nil
}

// insertBackendBound places BackendBound = 1 - FE - BS - RET right after
// Retiring. The residual is not clamped.
func insertBackendBound(metrics []Metric) []Metric {
	var fe, bs, ret float64
	at := len(metrics)
	for i, m := range metrics {
		switch m.Name {
		case FrontendBound:
			fe = m.Value
		case BadSpeculation:
			bs = m.Value
		case Retiring:
			ret = m.Value
			at = i + 1
		}
	}

	bb := Metric{Name: BackendBound, Value: 1 - fe - bs - ret, Kind: Fraction}

	out := make([]Metric, 0, len(metrics)+1)
	out = append(out, metrics[:at]...)
	out = append(out, bb)
	out = append(out, metrics[at:]...)
	return out
}

func (c *Calculator) checkMissing(ctr *counters.Counters, groups []groupDef) error {
	required := mapset.NewThreadUnsafeSet[string]()
	present := mapset.NewThreadUnsafeSet[string]()

	for _, g := range groups {
		for _, d := range g.ratios {
			if c.Policy(d.name) == ZeroOnZero {
				continue
			}
			for _, op := range d.operands() {
				required.Add(op.String())
				if _, ok := op.lookup(ctr); ok {
					present.Add(op.String())
				}
			}
		}
	}

	missing := required.Difference(present)
	if missing.Cardinality() == 0 {
		return nil
	}

	names := missing.ToSlice()
	sort.Strings(names)
	return &MissingCounterError{Counters: names}
}

func (c *Calculator) eval(ctr *counters.Counters, d ratioDef) (float64, error) {
	sum := func(terms []term) float64 {
		var s float64
		for _, t := range terms {
			v, _ := t.op.lookup(ctr)
			s += t.sign * float64(v)
		}
		return s
	}

	num, den := sum(d.num), sum(d.den)
	if den == 0 {
		if c.Policy(d.name) == ZeroOnZero {
			c.logger.WithField("metric", d.name).Debug("zero denominator, reporting 0")
			return 0, nil
		}
		return 0, &ZeroDenominatorError{Metric: d.name}
	}
	return num / den, nil
}
