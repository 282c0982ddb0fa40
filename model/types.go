// Package model provides domain types shared across packages.
package model

import (
	"fmt"
	"strings"
)

// ComplexityTier classifies how demanding a request is.
// Derived from a numeric complexity score on a 0-10 scale.
type ComplexityTier int

const (
	TierSimple ComplexityTier = iota
	TierModerate
	TierComplex
	TierAdaptive
)

// String returns the string representation of the tier.
func (t ComplexityTier) String() string {
	switch t {
	case TierSimple:
		return "simple"
	case TierModerate:
		return "moderate"
	case TierComplex:
		return "complex"
	case TierAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// TierForScore maps a complexity score to a tier.
// Boundaries: <4 simple, <6 moderate, <8 complex, else adaptive.
func TierForScore(score float64) ComplexityTier {
	switch {
	case score < 4:
		return TierSimple
	case score < 6:
		return TierModerate
	case score < 8:
		return TierComplex
	default:
		return TierAdaptive
	}
}

// CollaborationMode governs how a swarm's agents are dispatched.
type CollaborationMode int

const (
	// ModeSequential runs agents one after another, each seeing prior results.
	ModeSequential CollaborationMode = iota
	// ModeParallel fans out all agents concurrently and joins on completion.
	ModeParallel
	// ModeAdaptive chains agents like sequential, chosen for adaptive-tier tasks.
	ModeAdaptive
)

// String returns the string representation of the mode.
func (m CollaborationMode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeParallel:
		return "parallel"
	case ModeAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// ParseCollaborationMode parses a string into a CollaborationMode.
func ParseCollaborationMode(s string) (CollaborationMode, error) {
	switch strings.ToLower(s) {
	case "sequential":
		return ModeSequential, nil
	case "parallel":
		return ModeParallel, nil
	case "adaptive":
		return ModeAdaptive, nil
	default:
		return 0, fmt.Errorf("unknown collaboration mode: %s", s)
	}
}

// Domain tags a request's primary subject area.
type Domain int

const (
	DomainGeneral Domain = iota
	DomainCode
	DomainResearch
	DomainWriting
	DomainDataAnalysis
	DomainTesting
)

// String returns the string representation of the domain.
func (d Domain) String() string {
	switch d {
	case DomainCode:
		return "code"
	case DomainResearch:
		return "research"
	case DomainWriting:
		return "writing"
	case DomainDataAnalysis:
		return "data_analysis"
	case DomainTesting:
		return "testing"
	default:
		return "general"
	}
}
