package config

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

var (
	ErrMissingDatabaseDSN = errors.New("database dsn is not configured")
	ErrMissingOpenAIKey   = errors.New("openai key is not configured")
)

// Храним в файле в формате hcl, переменные окружения имеют префикс TW_
type Config struct {
	DatabaseDSN string `hcl:"database_dsn" env:"DATABASE_DSN"`
	HTTPAddr    string `hcl:"http_addr" env:"HTTP_ADDR" default:":8080"`
	LogLevel    string `hcl:"log_level" env:"LOG_LEVEL" default:"info"`
	// Публичный адрес сайта, используется в ссылках на статьи
	BaseURL string `hcl:"base_url" env:"BASE_URL" default:"http://localhost:3000"`

	OpenAIKey     string `hcl:"openai_key" env:"OPENAI_KEY"`
	OpenAIBaseURL string `hcl:"openai_base_url" env:"OPENAI_BASE_URL"`
	OpenAIModel   string `hcl:"openai_model" env:"OPENAI_MODEL" default:"gpt-3.5-turbo"`

	UnsplashAccessKey string        `hcl:"unsplash_access_key" env:"UNSPLASH_ACCESS_KEY"`
	RedisAddr         string        `hcl:"redis_addr" env:"REDIS_ADDR"`
	ImageCacheTTL     time.Duration `hcl:"image_cache_ttl" env:"IMAGE_CACHE_TTL" default:"24h"`

	// Данные OAuth приложения провайдера и секрет, которым подписаны токены сессий
	GoogleClientID     string `hcl:"google_client_id" env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `hcl:"google_client_secret" env:"GOOGLE_CLIENT_SECRET"`
	AuthSecret         string `hcl:"auth_secret" env:"AUTH_SECRET"`

	GenerateInterval    time.Duration `hcl:"generate_interval" env:"GENERATE_INTERVAL" default:"10m"`
	StalenessWindow     time.Duration `hcl:"staleness_window" env:"STALENESS_WINDOW" default:"1h"`
	GenerateBatchSize   int           `hcl:"generate_batch_size" env:"GENERATE_BATCH_SIZE" default:"1"`
	GenerateConcurrency int           `hcl:"generate_concurrency" env:"GENERATE_CONCURRENCY" default:"3"`
	GenerateRPS         float64       `hcl:"generate_rps" env:"GENERATE_RPS" default:"1"`
	GenerationTimeout   time.Duration `hcl:"generation_timeout" env:"GENERATION_TIMEOUT" default:"90s"`
	ImageTimeout        time.Duration `hcl:"image_timeout" env:"IMAGE_TIMEOUT" default:"10s"`

	TrendingTimeout      time.Duration `hcl:"trending_timeout" env:"TRENDING_TIMEOUT" default:"15s"`
	TrendingRSSURL       string        `hcl:"trending_rss_url" env:"TRENDING_RSS_URL" default:"https://trends.google.com/trending/rss?geo=US"`
	TrendingPageURL      string        `hcl:"trending_page_url" env:"TRENDING_PAGE_URL"`
	TrendingPageSelector string        `hcl:"trending_page_selector" env:"TRENDING_PAGE_SELECTOR" default:"[data-entity-type=\"QUERY\"] a"`

	TelegramBotToken     string        `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID    int64         `hcl:"telegram_channel_id" env:"TELEGRAM_CHANNEL_ID"`
	NotificationInterval time.Duration `hcl:"notification_interval" env:"NOTIFICATION_INTERVAL" default:"1m"`
}

// Проверка обязательных параметров для всего, что запускает генерацию
func (c Config) Validate() error {
	if c.DatabaseDSN == "" {
		return ErrMissingDatabaseDSN
	}
	if c.OpenAIKey == "" {
		return ErrMissingOpenAIKey
	}

	return nil
}

// Конфиг читается один раз, а запрашивают его из разных мест
var (
	cfg  Config
	once sync.Once
)

func Get() Config {
	once.Do(func() {
		cfg = load([]string{"./config.hcl", "./config.local.hcl"})
	})

	return cfg
}

func load(files []string) Config {
	var c Config

	loader := aconfig.LoaderFor(&c, aconfig.Config{
		EnvPrefix:          "TW",
		SkipFlags:          true,
		AllowUnknownFields: true,
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		slog.Error("failed to load config", "error", err)
	}

	return c
}
