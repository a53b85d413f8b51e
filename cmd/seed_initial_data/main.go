package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"dysscreen/cmd/seed_initial_data/internal/seedmodels"
	"dysscreen/internal/config"
	"dysscreen/internal/database"
	"dysscreen/internal/domain"
	"dysscreen/internal/logger"
	"dysscreen/internal/repository"
	"dysscreen/internal/service"

	"go.uber.org/zap"
)

//go:embed seed_data/initial_screening_data.json
var seedFile []byte

func main() {
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

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	data, err := parseSeedData(seedFile)
	if err != nil {
		log.Fatal("Failed to parse seed data", zap.Error(err))
	}

	// The seeder runs before the API, so no cache needs invalidating.
	questions := service.NewQuestionService(
		repository.NewSQLXQuestionRepository(db),
		repository.NewTransactionManagerAdapter(db),
		nil, 0, time.Minute,
	)
	s := &seeder{
		questions: questions,
		configs:   repository.NewSQLXScreeningConfigRepository(db),
		content:   repository.NewSQLXDisabilityContentRepository(db),
		log:       log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := s.run(ctx, data); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Initial data seeding process completed.")
}

func parseSeedData(raw []byte) (*seedmodels.SeedData, error) {
	var data seedmodels.SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed data: %w", err)
	}
	return &data, nil
}

// seeder fills an empty database. Every step skips data that already
// exists, so running it twice is harmless.
type seeder struct {
	questions service.QuestionService
	configs   domain.ScreeningConfigRepository
	content   domain.DisabilityContentRepository
	log       *zap.Logger
}

func (s *seeder) run(ctx context.Context, data *seedmodels.SeedData) error {
	if err := s.seedQuestionBanks(ctx, data.QuestionBanks); err != nil {
		return err
	}
	if err := s.seedSecondScreening(ctx, data.SecondScreening); err != nil {
		return err
	}
	return s.seedContent(ctx, data.DisabilityContent)
}

func (s *seeder) seedQuestionBanks(ctx context.Context, banks []seedmodels.SeedQuestionBank) error {
	counts, err := s.questions.CountByType(ctx)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	for _, bank := range banks {
		t, qs, err := bank.ToDomain()
		if err != nil {
			return err
		}
		if counts[t] > 0 {
			s.log.Info("Question bank already seeded, skipping", zap.String("quiz_type", string(t)), zap.Int("existing", counts[t]))
			continue
		}
		n, err := s.questions.ImportQuestions(ctx, qs)
		if err != nil {
			return fmt.Errorf("failed to seed %s questions: %w", t, err)
		}
		s.log.Info("Seeded question bank", zap.String("quiz_type", string(t)), zap.Int("questions", n))
	}
	return nil
}

func (s *seeder) seedSecondScreening(ctx context.Context, seed seedmodels.SeedSecondScreening) error {
	if seed.QuestionsPerCategory <= 0 {
		return nil
	}
	existing, err := s.configs.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load second screening config: %w", err)
	}
	if existing != nil {
		s.log.Info("Second screening already configured, skipping")
		return nil
	}

	cfg := &domain.SecondScreeningConfig{
		ThresholdPercent:    seed.Threshold,
		SelectedQuestionIDs: make(map[domain.QuizType][]string),
		UpdatedAt:           time.Now(),
	}
	for _, t := range domain.DisabilityTypes {
		qs, err := s.questions.Questions(ctx, t)
		if err != nil {
			return fmt.Errorf("failed to load %s questions: %w", t, err)
		}
		if len(qs) > seed.QuestionsPerCategory {
			qs = qs[:seed.QuestionsPerCategory]
		}
		for _, q := range qs {
			cfg.SelectedQuestionIDs[t] = append(cfg.SelectedQuestionIDs[t], q.ID)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid second screening seed: %w", err)
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save second screening config: %w", err)
	}
	s.log.Info("Seeded second screening config", zap.Int("threshold", cfg.ThresholdPercent))
	return nil
}

func (s *seeder) seedContent(ctx context.Context, contents []seedmodels.SeedContent) error {
	for _, sc := range contents {
		c, err := sc.ToDomain()
		if err != nil {
			return err
		}
		existing, err := s.content.Get(ctx, c.DisabilityType)
		if err != nil {
			return fmt.Errorf("failed to load %s content: %w", c.DisabilityType, err)
		}
		if existing != nil {
			s.log.Info("Disability content exists, skipping", zap.String("disability", string(c.DisabilityType)))
			continue
		}
		c.UpdatedAt = time.Now()
		if err := s.content.Upsert(ctx, c); err != nil {
			return fmt.Errorf("failed to save %s content: %w", c.DisabilityType, err)
		}
		s.log.Info("Seeded disability content", zap.String("disability", string(c.DisabilityType)))
	}
	return nil
}
