// Package screening holds the pure screening core: the question bank view,
// the scoring engine, the screening flow state machine and the result
// history reconciler. Nothing in this package performs I/O.
package screening

import (
	"fmt"

	"dysscreen/internal/domain"
)

// Default cut points and thresholds used when configuration omits them.
const (
	DefaultHighCut                = 70.0
	DefaultModerateCut            = 40.0
	DefaultPassThreshold          = 60.0
	DefaultSecondScreeningPercent = 60
)

// TierCuts are the exclusive lower bounds of the High and Moderate tiers.
type TierCuts struct {
	High     float64
	Moderate float64
}

// Policy carries every configurable threshold the engine needs.
type Policy struct {
	PassThresholds map[domain.QuizType]float64
	Cuts           TierCuts
	// ClosestMatchFallback enables the explicit closest-match step when no
	// second screening category passes.
	ClosestMatchFallback bool
}

// DefaultPolicy returns the thresholds observed in production use.
func DefaultPolicy() Policy {
	return Policy{
		PassThresholds: map[domain.QuizType]float64{
			domain.QuizTypeQualification: DefaultPassThreshold,
			domain.QuizTypeDyslexia:      DefaultPassThreshold,
			domain.QuizTypeDysgraphia:    DefaultPassThreshold,
			domain.QuizTypeDyscalculia:   DefaultPassThreshold,
		},
		Cuts:                 TierCuts{High: DefaultHighCut, Moderate: DefaultModerateCut},
		ClosestMatchFallback: true,
	}
}

// Validate reports inconsistent thresholds.
func (p Policy) Validate() error {
	var errs domain.ValidationErrors
	for t, v := range p.PassThresholds {
		if !t.Known() {
			errs = append(errs, domain.NewInvalidFormatError("pass_thresholds", string(t)))
		}
		if v < 0 || v > 100 {
			errs = append(errs, domain.NewOutOfRangeError("pass_thresholds."+string(t), v, 0, 100))
		}
	}
	if p.Cuts.Moderate < 0 || p.Cuts.High > 100 || p.Cuts.Moderate >= p.Cuts.High {
		errs = append(errs, domain.NewValidationError("tier_cuts", "require 0 <= moderate < high <= 100"))
	}
	return errs.OrNil()
}

// PassThreshold returns the configured pass percentage for t.
// A missing threshold is a configuration error, never a silent default.
func (p Policy) PassThreshold(t domain.QuizType) (float64, error) {
	v, ok := p.PassThresholds[t]
	if !ok {
		return 0, domain.NewInternalError(fmt.Sprintf("no pass threshold configured for quiz type %s", t), nil)
	}
	return v, nil
}
