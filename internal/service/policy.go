package service

import (
	"dysscreen/internal/config"
	"dysscreen/internal/domain"
	"dysscreen/internal/screening"
)

// PolicyFromConfig translates the screening config section into the
// thresholds the scoring engine works with.
func PolicyFromConfig(cfg config.ScreeningConfig) (screening.Policy, error) {
	p := screening.DefaultPolicy()
	if len(cfg.PassThresholds) > 0 {
		p.PassThresholds = make(map[domain.QuizType]float64, len(cfg.PassThresholds))
		for k, v := range cfg.PassThresholds {
			p.PassThresholds[domain.QuizType(k)] = v
		}
	}
	if cfg.HighCut != 0 || cfg.ModerateCut != 0 {
		p.Cuts = screening.TierCuts{High: cfg.HighCut, Moderate: cfg.ModerateCut}
	}
	p.ClosestMatchFallback = cfg.ClosestMatchFallback

	for _, t := range []domain.QuizType{domain.QuizTypeQualification, domain.QuizTypeDyslexia, domain.QuizTypeDysgraphia, domain.QuizTypeDyscalculia} {
		if _, ok := p.PassThresholds[t]; !ok {
			return screening.Policy{}, domain.ValidationErrors{
				domain.NewMissingFieldError("screening.pass_thresholds." + string(t)),
			}
		}
	}
	if err := p.Validate(); err != nil {
		return screening.Policy{}, err
	}
	return p, nil
}
