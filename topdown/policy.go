package topdown

import (
	"fmt"
	"strings"
)

// Variant selects which metrics are derived.
type Variant int

const (
	// Minimal derives the four Top-Down level-1 ratios.
	Minimal Variant = iota
	// Extended adds the frontend breakdown and the ICache, DCache and
	// BPU groups.
	Extended
)

func (v Variant) String() string {
	switch v {
	case Minimal:
		return "minimal"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant parses "minimal" or "extended".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return Minimal, nil
	case "extended":
		return Extended, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}

// BadSpecFormula selects the BadSpeculation formula.
type BadSpecFormula int

const (
	// BadSpecV1 is (SlotsIssued - SlotsRetired + RecoveryBubbles) / TotalSlots.
	BadSpecV1 BadSpecFormula = iota + 1
	// BadSpecV2 is (SlotsIssued - SlotsRetired) / TotalSlots.
	BadSpecV2
)

func (f BadSpecFormula) String() string {
	switch f {
	case BadSpecV1:
		return "v1"
	case BadSpecV2:
		return "v2"
	default:
		return fmt.Sprintf("BadSpecFormula(%d)", int(f))
	}
}

// ParseBadSpecFormula parses "v1" or "v2".
func ParseBadSpecFormula(s string) (BadSpecFormula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1":
		return BadSpecV1, nil
	case "v2":
		return BadSpecV2, nil
	default:
		return 0, fmt.Errorf("unknown bad speculation formula %q", s)
	}
}

// Policy decides what a ratio does when its inputs are missing or its
// denominator is zero.
type Policy int

const (
	// FailOnZero fails on a missing counter or a zero denominator.
	FailOnZero Policy = iota
	// ZeroOnZero reads missing counters as 0 and reports 0 for a zero
	// denominator.
	ZeroOnZero
)

func (p Policy) String() string {
	if p == ZeroOnZero {
		return "zero-on-zero"
	}
	return "fail-on-zero"
}

// DefaultPolicies returns the per-ratio policy table. Ratios not listed
// use FailOnZero.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		BPUCorrectRate: ZeroOnZero,
	}
}
