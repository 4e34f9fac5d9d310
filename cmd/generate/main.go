// Разовый прогон генерации: проставляет недостающие картинки и пишет статьи
// по темам из аргументов, а без аргументов по новым трендовым темам.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/kovalyov-valentin/trendwise/internal/config"
	"github.com/kovalyov-valentin/trendwise/internal/generator"
	"github.com/kovalyov-valentin/trendwise/internal/image"
	"github.com/kovalyov-valentin/trendwise/internal/logger"
	"github.com/kovalyov-valentin/trendwise/internal/pipeline"
	"github.com/kovalyov-valentin/trendwise/internal/storage"
	"github.com/kovalyov-valentin/trendwise/internal/trending"
	_ "github.com/lib/pq"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("generate failed", "error", err)
		os.Exit(1)
	}
}

func run(topics []string) error {
	_ = godotenv.Load()

	cfg := config.Get()
	logger.Init(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var (
		images         = image.NewUnsplashResolver(cfg.UnsplashAccessKey, cfg.ImageTimeout)
		articleStorage = storage.NewArticleStorage(db)
		pipe           = pipeline.New(
			generator.NewOpenAIGenerator(generator.Options{
				APIKey:  cfg.OpenAIKey,
				BaseURL: cfg.OpenAIBaseURL,
				Model:   cfg.OpenAIModel,
			}),
			images,
			articleStorage,
			trending.NewDiscoverer(
				cfg.TrendingTimeout,
				trending.Backends(cfg.TrendingRSSURL, cfg.TrendingPageURL, cfg.TrendingPageSelector, cfg.TrendingTimeout)...,
			),
			pipeline.Config{
				BatchSize:         cfg.GenerateBatchSize,
				Concurrency:       cfg.GenerateConcurrency,
				RPS:               cfg.GenerateRPS,
				GenerationTimeout: cfg.GenerationTimeout,
				ImageTimeout:      cfg.ImageTimeout,
			},
		)
	)

	backfilled, err := articleStorage.BackfillMissingImages(ctx, images)
	if err != nil {
		return fmt.Errorf("backfill images: %w", err)
	}
	slog.Info("images backfilled", "count", backfilled)

	if len(topics) == 0 {
		if topics, err = pipe.NewTopics(ctx); err != nil {
			return err
		}
	}

	var failed int
	for _, res := range pipe.GenerateBatch(ctx, topics) {
		switch {
		case res.Err == nil:
			slog.Info("article saved", "topic", res.Topic, "slug", res.Article.Slug)
		case errors.Is(res.Err, storage.ErrDuplicateSlug):
			slog.Info("article already exists", "topic", res.Topic)
		default:
			failed++
			slog.Error("article not generated", "topic", res.Topic, "error", res.Err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d topics failed", failed, len(topics))
	}

	return nil
}
