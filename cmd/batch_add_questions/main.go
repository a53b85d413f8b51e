// Command batch_add_questions appends questions from a JSON file to the
// question bank. The file holds an array of admin question requests:
//
//	[{"quiz_type": "dyslexia", "text": "...", "weight": 4}]
//
// The weight defaults to 4 when omitted and options are generated from it. Every question is
// validated before anything is written, and the whole batch is stored in one
// transaction.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"dysscreen/internal/adapter"
	"dysscreen/internal/cache"
	"dysscreen/internal/config"
	"dysscreen/internal/database"
	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/repository"
	"dysscreen/internal/screening"
	"dysscreen/internal/service"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "path to the JSON question batch")
	dryRun := flag.Bool("dry-run", false, "validate the batch without writing it")
	flag.Parse()

	if *file == "" {
		fmt.Println("usage: batch_add_questions -file questions.json [-dry-run]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal("Failed to open batch file", zap.String("path", *file), zap.Error(err))
	}
	qs, err := loadBatch(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read batch file", zap.String("path", *file), zap.Error(err))
	}

	if *dryRun {
		if err := validateBatch(qs); err != nil {
			log.Fatal("Batch is invalid", zap.Error(err))
		}
		log.Info("Batch is valid", zap.Int("questions", len(qs)))
		return
	}

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	// The running API caches question sets; invalidate them when Redis is configured.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize Redis Client", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		log.Warn("Redis cache is not configured. Cached question sets expire on their own.")
	}

	questions := service.NewQuestionService(
		repository.NewSQLXQuestionRepository(db),
		repository.NewTransactionManagerAdapter(db),
		cacheAdapter, cfg.Cache.QuestionTTL, time.Minute,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	n, err := questions.ImportQuestions(ctx, qs)
	if err != nil {
		log.Fatal("Batch import failed", zap.Error(err))
	}
	log.Info("Batch import completed", zap.Int("questions", n))
}

// loadBatch decodes the batch file into unsaved questions.
func loadBatch(r io.Reader) ([]domain.Question, error) {
	var reqs []dto.QuestionRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&reqs); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("batch is empty")
	}

	qs := make([]domain.Question, len(reqs))
	for i, req := range reqs {
		t, err := domain.ParseQuizType(req.QuizType)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		qs[i] = *domain.NewQuestion(t, req.Text, req.QuestionWeight(), dto.ToDomainOptions(req.Options))
	}
	return qs, nil
}

// validateBatch reports every invalid question, like ImportQuestions does.
func validateBatch(qs []domain.Question) error {
	var errs domain.ValidationErrors
	for i, q := range qs {
		if _, err := screening.ValidateQuestion(q); err != nil {
			var vErrs domain.ValidationErrors
			if errors.As(err, &vErrs) {
				for _, e := range vErrs {
					e.Field = fmt.Sprintf("questions[%d].%s", i, e.Field)
					errs = append(errs, e)
				}
				continue
			}
			return err
		}
	}
	return errs.OrNil()
}
