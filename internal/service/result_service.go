package service

import (
	"context"
	"fmt"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/screening"
	"dysscreen/internal/util"

	"go.uber.org/zap"
)

// ResultService scores submitted quizzes and serves the result history.
type ResultService interface {
	// SaveQuizResult scores a complete submission. An empty userID makes
	// the result transient.
	SaveQuizResult(ctx context.Context, userID string, req dto.SaveQuizResultRequest) (*dto.QuizResultResponse, error)
	// Persist stores what a screening session submission produced.
	Persist(ctx context.Context, out *screening.Outcome) (*dto.QuizResultResponse, error)
	GetLatest(ctx context.Context, userID, quizType string, forceRetake bool) (*dto.LatestResultResponse, error)
	GetHistory(ctx context.Context, userID string) (*dto.ResultHistoryResponse, error)
	GetAnonymous(ctx context.Context, token string) (*dto.QuizResultResponse, error)
	ListAll(ctx context.Context, page dto.Pagination) (*dto.AdminResultsResponse, error)
}

type resultService struct {
	repo       domain.QuizAttemptRepository
	questions  QuestionService
	configs    ScreeningConfigService
	anonymous  AnonymousResultCacheService
	controller *screening.Controller
	timeout    time.Duration
	now        func() time.Time
}

func NewResultService(repo domain.QuizAttemptRepository, questions QuestionService, configs ScreeningConfigService, anonymous AnonymousResultCacheService, controller *screening.Controller, timeout time.Duration) ResultService {
	return &resultService{
		repo:       repo,
		questions:  questions,
		configs:    configs,
		anonymous:  anonymous,
		controller: controller,
		timeout:    timeout,
		now:        time.Now,
	}
}

func (s *resultService) SaveQuizResult(ctx context.Context, userID string, req dto.SaveQuizResultRequest) (*dto.QuizResultResponse, error) {
	t, err := domain.ParseQuizType(req.QuizType)
	if err != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("quiz_type", req.QuizType)}
	}
	if len(req.Answers) == 0 {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("answers")}
	}
	answers := dto.ToDomainAnswers(req.Answers)

	var out *screening.Outcome
	if t == domain.QuizTypeGeneral {
		out, err = s.scoreSecondScreening(ctx, answers)
	} else {
		out, err = s.scoreSingle(ctx, t, answers)
	}
	if err != nil {
		return nil, err
	}
	if userID != "" {
		out.Save = &screening.SaveCommand{UserID: userID, QuizType: t, Answers: out.Answers}
	} else {
		out.Transient = true
	}
	return s.Persist(ctx, out)
}

func (s *resultService) scoreSingle(ctx context.Context, t domain.QuizType, answers []domain.Answer) (*screening.Outcome, error) {
	qs, err := s.questions.Questions(ctx, t)
	if err != nil {
		return nil, err
	}
	attempt := screening.NewAttempt(t, qs)
	if err := attempt.Apply(answers); err != nil {
		return nil, err
	}
	submitted, err := attempt.Submit()
	if err != nil {
		return nil, err
	}
	summary, result, err := screening.EvaluateSingle(s.controller.Policy(), t, submitted, qs)
	if err != nil {
		return nil, err
	}
	return &screening.Outcome{
		QuizType: t,
		Answers:  submitted,
		Summary:  summary,
		Result:   domain.NewSingleScreeningResult(result),
	}, nil
}

func (s *resultService) scoreSecondScreening(ctx context.Context, answers []domain.Answer) (*screening.Outcome, error) {
	set, err := s.configs.SecondScreeningSet(ctx)
	if err != nil {
		return nil, err
	}
	attempt := screening.NewAttempt(domain.QuizTypeGeneral, set.Flatten())
	if err := attempt.Apply(answers); err != nil {
		return nil, err
	}
	submitted, err := attempt.Submit()
	if err != nil {
		return nil, err
	}
	summary, result, err := screening.ScoreMultiCategory(submitted, set.Questions, float64(set.Threshold))
	if err != nil {
		return nil, err
	}
	out := &screening.Outcome{
		QuizType: domain.QuizTypeGeneral,
		Answers:  submitted,
		Summary:  summary,
		Result:   domain.NewMultiCategoryScreeningResult(result),
	}
	if len(result.PassedCategories) == 0 && s.controller.Policy().ClosestMatchFallback {
		out.ClosestMatches = screening.ClosestMatches(&result)
	}
	return out, nil
}

func (s *resultService) Persist(ctx context.Context, out *screening.Outcome) (*dto.QuizResultResponse, error) {
	if out == nil {
		return nil, domain.NewInvalidInputError("outcome is required")
	}
	attempt := &domain.QuizAttempt{
		QuizType:    out.QuizType,
		Answers:     out.Answers,
		TotalScore:  out.Summary.TotalScore,
		MaxScore:    out.Summary.MaxScore,
		Percentage:  out.Summary.Percentage,
		Result:      out.Result,
		SubmittedAt: s.now().UTC(),
	}

	if out.Save == nil {
		resp := dto.NewQuizResultResponse(attempt)
		resp.ClosestMatches = quizTypeStrings(out.ClosestMatches)
		if _, err := s.anonymous.Put(ctx, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	attempt.ID = util.NewULID()
	attempt.UserID = out.Save.UserID
	attempt.QuizType = out.Save.QuizType
	attempt.Answers = out.Save.Answers

	repoCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Create(repoCtx, attempt); err != nil {
		return nil, persistenceError("save quiz attempt", err)
	}
	logger.Get().Info("quiz attempt saved",
		zap.String("attempt_id", attempt.ID),
		zap.String("user_id", attempt.UserID),
		zap.String("quiz_type", string(attempt.QuizType)),
		zap.Float64("percentage", attempt.Percentage))

	resp := dto.NewQuizResultResponse(attempt)
	resp.ClosestMatches = quizTypeStrings(out.ClosestMatches)
	return &resp, nil
}

// GetLatest decides between offering the previous result and starting
// fresh. Stored answers are replayed onto the current question order;
// answers the bank no longer supports are dropped.
func (s *resultService) GetLatest(ctx context.Context, userID, quizType string, forceRetake bool) (*dto.LatestResultResponse, error) {
	t, err := domain.ParseQuizType(quizType)
	if err != nil {
		return nil, err
	}

	repoCtx, cancel := bounded(ctx, s.timeout)
	latest, err := s.repo.GetLatest(repoCtx, userID, t)
	cancel()
	if err != nil {
		return nil, persistenceError("load latest attempt", err)
	}

	decision := screening.Reconcile(latest, forceRetake)
	resp := &dto.LatestResultResponse{Decision: string(decision.Kind)}
	if decision.Kind != screening.DecisionShowPrompt {
		return resp, nil
	}

	var current []domain.Question
	if t == domain.QuizTypeGeneral {
		set, err := s.configs.SecondScreeningSet(ctx)
		if err != nil {
			return nil, err
		}
		current = set.Flatten()
	} else {
		current, err = s.questions.Questions(ctx, t)
		if err != nil {
			return nil, err
		}
	}

	replay := screening.ReplayAnswers(latest, current)
	if replay.Dropped > 0 {
		logger.Get().Info("dropped stale answers while replaying attempt",
			zap.String("attempt_id", latest.ID),
			zap.Int("dropped", replay.Dropped))
	}

	previous := dto.NewQuizResultResponse(latest)
	resp.PreviousPercentage = decision.PreviousPercentage
	resp.PreviousPassed = decision.PreviousPassed
	resp.PreviousTier = string(decision.PreviousTier)
	resp.Previous = &previous
	resp.DroppedAnswers = replay.Dropped
	resp.ReplayedAnswers = make([]*dto.AnswerDTO, len(replay.Answers))
	for i, a := range replay.Answers {
		if a == nil {
			continue
		}
		resp.ReplayedAnswers[i] = &dto.AnswerDTO{
			QuestionID:    a.QuestionID,
			QuizType:      string(a.QuizType),
			SelectedScore: a.SelectedScore,
		}
	}
	return resp, nil
}

func (s *resultService) GetHistory(ctx context.Context, userID string) (*dto.ResultHistoryResponse, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	attempts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, persistenceError("list user attempts", err)
	}
	items := make([]dto.QuizResultResponse, len(attempts))
	for i := range attempts {
		items[i] = dto.NewQuizResultResponse(&attempts[i])
	}
	return &dto.ResultHistoryResponse{Items: items}, nil
}

func (s *resultService) GetAnonymous(ctx context.Context, token string) (*dto.QuizResultResponse, error) {
	return s.anonymous.Get(ctx, token)
}

func (s *resultService) ListAll(ctx context.Context, page dto.Pagination) (*dto.AdminResultsResponse, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	attempts, total, err := s.repo.ListAll(ctx, domain.Pagination{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, persistenceError("list attempts", err)
	}
	items := make([]dto.AdminResultRow, len(attempts))
	for i := range attempts {
		items[i] = dto.AdminResultRow{
			QuizResultResponse: dto.NewQuizResultResponse(&attempts[i]),
			Verdict:            Verdict(&attempts[i]),
		}
	}
	return &dto.AdminResultsResponse{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Verdict renders the outcome of an attempt for the admin results table.
func Verdict(a *domain.QuizAttempt) string {
	switch {
	case a.Result.Kind == domain.ResultKindMultiCategory && a.Result.MultiCategory != nil:
		passed := a.Result.MultiCategory.PassedCategories
		if len(passed) == 0 {
			return "Not detected"
		}
		out := "Detected: "
		for i, c := range passed {
			if i > 0 {
				out += ", "
			}
			out += string(c)
		}
		return out
	case a.Result.Single != nil && a.QuizType == domain.QuizTypeQualification:
		if a.Result.Single.Passed {
			return "Pass"
		}
		return "Fail"
	case a.Result.Single != nil:
		return fmt.Sprintf("%s risk", a.Result.Single.Tier)
	default:
		return "Unknown"
	}
}

func quizTypeStrings(ts []domain.QuizType) []string {
	if len(ts) == 0 {
		return nil
	}
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
