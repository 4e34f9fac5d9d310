package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/kovalyov-valentin/trendwise/internal/api"
	"github.com/kovalyov-valentin/trendwise/internal/auth"
	"github.com/kovalyov-valentin/trendwise/internal/bot"
	"github.com/kovalyov-valentin/trendwise/internal/bot/middleware"
	"github.com/kovalyov-valentin/trendwise/internal/botkit"
	"github.com/kovalyov-valentin/trendwise/internal/config"
	"github.com/kovalyov-valentin/trendwise/internal/generator"
	"github.com/kovalyov-valentin/trendwise/internal/image"
	"github.com/kovalyov-valentin/trendwise/internal/logger"
	"github.com/kovalyov-valentin/trendwise/internal/notifier"
	"github.com/kovalyov-valentin/trendwise/internal/pipeline"
	"github.com/kovalyov-valentin/trendwise/internal/storage"
	"github.com/kovalyov-valentin/trendwise/internal/trending"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("trendwise stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env нужен только для локального запуска
	_ = godotenv.Load()

	cfg := config.Get()
	logger.Init(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Инициализируем подключение к БД
	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	var images image.Resolver = image.NewUnsplashResolver(cfg.UnsplashAccessKey, cfg.ImageTimeout)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		images = image.NewCachedResolver(images, rdb, cfg.ImageCacheTTL)
	}

	// Инициализируем наши зависимости
	var (
		articleStorage = storage.NewArticleStorage(db)
		commentStorage = storage.NewCommentStorage(db)
		discoverer     = trending.NewDiscoverer(
			cfg.TrendingTimeout,
			trending.Backends(cfg.TrendingRSSURL, cfg.TrendingPageURL, cfg.TrendingPageSelector, cfg.TrendingTimeout)...,
		)
		pipe = pipeline.New(
			generator.NewOpenAIGenerator(generator.Options{
				APIKey:  cfg.OpenAIKey,
				BaseURL: cfg.OpenAIBaseURL,
				Model:   cfg.OpenAIModel,
			}),
			images,
			articleStorage,
			discoverer,
			pipeline.Config{
				Interval:          cfg.GenerateInterval,
				StalenessWindow:   cfg.StalenessWindow,
				BatchSize:         cfg.GenerateBatchSize,
				Concurrency:       cfg.GenerateConcurrency,
				RPS:               cfg.GenerateRPS,
				GenerationTimeout: cfg.GenerationTimeout,
				ImageTimeout:      cfg.ImageTimeout,
			},
		)
	)

	if cfg.AuthSecret == "" {
		slog.Warn("auth secret is not set, posting comments is disabled")
	}

	srv := api.NewServer(cfg.HTTPAddr, api.NewRouter(api.Deps{
		Articles: articleStorage,
		Creator:  pipe,
		Comments: commentStorage,
		Topics:   discoverer,
		Verifier: auth.NewVerifier(cfg.AuthSecret, cfg.GoogleClientID),
		DB:       db,
	}))

	// Воркер генерации
	go func(ctx context.Context) {
		if err := pipe.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("pipeline stopped", "error", err)
			return
		}

		slog.Info("pipeline stopped")
	}(ctx)

	if cfg.TelegramBotToken != "" {
		startTelegram(ctx, cfg, articleStorage, pipe)
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown http server", "error", err)
		}
	}()

	slog.Info("http server started", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	slog.Info("http server stopped")
	return nil
}

// Анонсы в канал и команды админов работают, только если задан токен бота
func startTelegram(ctx context.Context, cfg config.Config, articles *storage.ArticlePostgresStorage, pipe *pipeline.Pipeline) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		return
	}

	announcer := notifier.New(
		articles,
		botAPI,
		cfg.NotificationInterval,
		// Статьи старше этого окна не анонсируем
		2*cfg.StalenessWindow,
		cfg.BaseURL,
		cfg.TelegramChannelID,
	)

	adminBot := botkit.New(botAPI, cfg.GenerationTimeout+cfg.ImageTimeout)
	adminBot.RegisterCmdView("start", bot.ViewCmdStart())
	adminBot.RegisterCmdView("latest", bot.ViewCmdLatest(articles, cfg.BaseURL))
	adminBot.RegisterCmdView(
		"generate",
		middleware.AdminOnly(
			cfg.TelegramChannelID,
			bot.ViewCmdGenerate(pipe, cfg.BaseURL),
		),
	)

	// Воркер notifier
	go func(ctx context.Context) {
		if err := announcer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("notifier stopped", "error", err)
			return
		}

		slog.Info("notifier stopped")
	}(ctx)

	// Бот
	go func(ctx context.Context) {
		if err := adminBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("bot stopped", "error", err)
			return
		}

		slog.Info("bot stopped")
	}(ctx)
}
