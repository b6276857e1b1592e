package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"beyondnp-backend/internal/models"
	"beyondnp-backend/internal/service"
)

// SeedUniversities upserts the university catalog listed in file.
func SeedUniversities(ctx context.Context, file string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg)

	list, err := loadUniversities(file)
	if err != nil {
		return err
	}

	db, st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeMongo(db, logger)

	n, err := service.NewUniversityService(st).Seed(ctx, list)
	if err != nil {
		logger.Error("seed stopped",
			slog.Int("written", n),
			slog.String("error", err.Error()))
		return err
	}

	logger.Info("universities seeded", slog.Int("count", n), slog.String("file", file))
	return nil
}

func loadUniversities(file string) ([]models.University, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", file, err)
	}

	var doc struct {
		Universities []models.University `yaml:"universities"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", file, err)
	}
	if len(doc.Universities) == 0 {
		return nil, fmt.Errorf("seed file %s lists no universities", file)
	}
	return doc.Universities, nil
}
