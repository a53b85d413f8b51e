package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dysscreen/internal/cache"
	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/screening"
	"dysscreen/internal/util"

	"go.uber.org/zap"
)

// sessionLockTTL bounds how long a crashed request can keep a session locked.
const sessionLockTTL = 30 * time.Second

// SessionService drives screening sessions kept in the cache. A session
// is written back only after its transition and any result persistence
// succeeded, so a failed call leaves the stored state untouched. Changes to
// one session are serialised by a lock key; a request that finds the lock
// held fails instead of waiting.
type SessionService interface {
	Create(ctx context.Context, userID string) (*dto.SessionResponse, error)
	Get(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error)
	// SubmitAnswers scores stage, which must be the stage the session waits in.
	SubmitAnswers(ctx context.Context, sessionID, userID string, stage screening.State, req dto.SubmitAnswersRequest) (*dto.StageResultResponse, error)
	RetakeSecondScreening(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error)
	ChooseDisability(ctx context.Context, sessionID, userID string, req dto.ChooseDisabilityRequest) (*dto.SessionResponse, error)
	EnterMode(ctx context.Context, sessionID, userID string, req dto.ChooseModeRequest) (*dto.SessionResponse, error)
	Finish(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error)
	Delete(ctx context.Context, sessionID, userID string) error
}

type sessionService struct {
	store      domain.Cache
	controller *screening.Controller
	questions  QuestionService
	configs    ScreeningConfigService
	results    ResultService
	ttl        time.Duration
	timeout    time.Duration
	now        func() time.Time
}

func NewSessionService(store domain.Cache, controller *screening.Controller, questions QuestionService, configs ScreeningConfigService, results ResultService, ttl, timeout time.Duration) SessionService {
	return &sessionService{
		store:      store,
		controller: controller,
		questions:  questions,
		configs:    configs,
		results:    results,
		ttl:        ttl,
		timeout:    timeout,
		now:        time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	sess := screening.NewSession(util.NewULID(), userID, s.now().UTC())
	if err := s.controller.Start(sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	logger.Get().Info("screening session started",
		zap.String("session_id", sess.ID),
		zap.Bool("anonymous", sess.Anonymous()))
	return s.view(ctx, sess)
}

func (s *sessionService) Get(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error) {
	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, sess)
}

func (s *sessionService) SubmitAnswers(ctx context.Context, sessionID, userID string, stage screening.State, req dto.SubmitAnswersRequest) (*dto.StageResultResponse, error) {
	// A second click on the same stage arrives while the first still holds the lock.
	unlock, err := s.lock(ctx, sessionID, domain.NewAlreadySubmittedError())
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.State != stage {
		return nil, domain.NewInvalidTransitionError(string(sess.State), "submit_"+string(stage))
	}
	answers := dto.ToDomainAnswers(req.Answers)

	var out *screening.Outcome
	switch sess.State {
	case screening.StateQualification:
		attempt, err := s.singleAttempt(ctx, domain.QuizTypeQualification, answers)
		if err != nil {
			return nil, err
		}
		out, err = s.controller.SubmitQualification(sess, attempt)
		if err != nil {
			return nil, err
		}
	case screening.StateSecondScreening:
		set, err := s.configs.SecondScreeningSet(ctx)
		if err != nil {
			return nil, err
		}
		attempt := screening.NewAttempt(domain.QuizTypeGeneral, set.Flatten())
		if err := attempt.Apply(answers); err != nil {
			return nil, err
		}
		out, err = s.controller.SubmitSecondScreening(sess, attempt, set.Questions, float64(set.Threshold))
		if err != nil {
			return nil, err
		}
	case screening.StateTest:
		attempt, err := s.singleAttempt(ctx, sess.Disability, answers)
		if err != nil {
			return nil, err
		}
		out, err = s.controller.SubmitTest(sess, attempt)
		if err != nil {
			return nil, err
		}
	default:
		return nil, domain.NewInvalidTransitionError(string(sess.State), "submit_answers")
	}

	result, err := s.results.Persist(ctx, out)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	logger.Get().Info("screening stage submitted",
		zap.String("session_id", sess.ID),
		zap.String("quiz_type", string(out.QuizType)),
		zap.String("next_state", string(out.Next)))
	return &dto.StageResultResponse{Session: sess, Result: *result}, nil
}

func (s *sessionService) RetakeSecondScreening(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error) {
	return s.transition(ctx, sessionID, userID, s.controller.RetakeSecondScreening)
}

func (s *sessionService) ChooseDisability(ctx context.Context, sessionID, userID string, req dto.ChooseDisabilityRequest) (*dto.SessionResponse, error) {
	d, err := domain.ParseDisabilityType(req.Disability)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, sessionID, userID, func(sess *screening.Session) error {
		return s.controller.ChooseDisability(sess, d)
	})
}

func (s *sessionService) EnterMode(ctx context.Context, sessionID, userID string, req dto.ChooseModeRequest) (*dto.SessionResponse, error) {
	return s.transition(ctx, sessionID, userID, func(sess *screening.Session) error {
		return s.controller.EnterMode(sess, screening.Mode(req.Mode))
	})
}

func (s *sessionService) Finish(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error) {
	return s.transition(ctx, sessionID, userID, s.controller.Finish)
}

func (s *sessionService) Delete(ctx context.Context, sessionID, userID string) error {
	unlock, err := s.lock(ctx, sessionID, errSessionBusy)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.load(ctx, sessionID, userID); err != nil {
		return err
	}
	storeCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.store.Delete(storeCtx, cache.SessionKey(sessionID)); err != nil {
		return persistenceError("delete session", err)
	}
	return nil
}

func (s *sessionService) transition(ctx context.Context, sessionID, userID string, fn func(*screening.Session) error) (*dto.SessionResponse, error) {
	unlock, err := s.lock(ctx, sessionID, errSessionBusy)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.load(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(ctx, sess)
}

func (s *sessionService) singleAttempt(ctx context.Context, t domain.QuizType, answers []domain.Answer) (*screening.Attempt, error) {
	qs, err := s.questions.Questions(ctx, t)
	if err != nil {
		return nil, err
	}
	attempt := screening.NewAttempt(t, qs)
	if err := attempt.Apply(answers); err != nil {
		return nil, err
	}
	return attempt, nil
}

// view attaches the questions of the stage the session waits in.
func (s *sessionService) view(ctx context.Context, sess *screening.Session) (*dto.SessionResponse, error) {
	resp := &dto.SessionResponse{Session: sess}
	var t domain.QuizType
	switch sess.State {
	case screening.StateQualification:
		t = domain.QuizTypeQualification
	case screening.StateTest:
		t = sess.Disability
	case screening.StateSecondScreening:
		set, err := s.configs.SecondScreeningSet(ctx)
		if err != nil {
			return nil, err
		}
		resp.Questions = dto.NewQuestionResponses(set.Flatten())
		resp.Threshold = float64(set.Threshold)
		return resp, nil
	default:
		return resp, nil
	}

	qs, err := s.questions.Questions(ctx, t)
	if err != nil {
		return nil, err
	}
	threshold, err := s.controller.Policy().PassThreshold(t)
	if err != nil {
		return nil, err
	}
	resp.Questions = dto.NewQuestionResponses(qs)
	resp.Threshold = threshold
	return resp, nil
}

var errSessionBusy = domain.NewConflictError("session is being updated by another request")

// lock takes the session's lock key and returns its release. busy is
// returned when another request holds the lock.
func (s *sessionService) lock(ctx context.Context, sessionID string, busy error) (func(), error) {
	if !util.IsULID(sessionID) {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("session_id", sessionID)}
	}
	key := cache.SessionLockKey(sessionID)

	lockCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	ok, err := s.store.SetNX(lockCtx, key, util.NewULID(), sessionLockTTL)
	if err != nil {
		return nil, persistenceError("lock session", err)
	}
	if !ok {
		logger.Get().Info("session busy", zap.String("session_id", sessionID))
		return nil, busy
	}

	return func() {
		// Release even when the request context was cancelled meanwhile.
		releaseCtx, cancel := bounded(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		if err := s.store.Delete(releaseCtx, key); err != nil {
			logger.Get().Warn("session unlock failed; the lock expires on its own",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}, nil
}

func (s *sessionService) load(ctx context.Context, sessionID, userID string) (*screening.Session, error) {
	if !util.IsULID(sessionID) {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("session_id", sessionID)}
	}
	storeCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	data, err := s.store.Get(storeCtx, cache.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("session %s not found or expired", sessionID))
		}
		return nil, persistenceError("load session", err)
	}
	var sess screening.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, domain.NewInternalError("failed to decode session", err)
	}
	if sess.UserID != "" && sess.UserID != userID {
		return nil, domain.NewForbiddenError("session belongs to another user")
	}
	return &sess, nil
}

func (s *sessionService) save(ctx context.Context, sess *screening.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return domain.NewInternalError("failed to encode session", err)
	}
	storeCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	if err := s.store.Set(storeCtx, cache.SessionKey(sess.ID), string(data), s.ttl); err != nil {
		return persistenceError("save session", err)
	}
	return nil
}
