package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kovalyov-valentin/trendwise/internal/assembler"
	"github.com/kovalyov-valentin/trendwise/internal/metrics"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/slug"
	"github.com/kovalyov-valentin/trendwise/internal/storage"
	"github.com/samber/lo"
	"github.com/tomakado/containers/set"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var ErrEmptyTopic = errors.New("topic is empty")

// Интервал проверки, если в конфиге задан нулевой или отрицательный
const defaultInterval = 10 * time.Minute

type Generator interface {
	Generate(ctx context.Context, topic string) (model.Draft, error)
}

type ImageResolver interface {
	Resolve(ctx context.Context, topic string) string
}

type ArticleStorage interface {
	Store(ctx context.Context, article model.Article) (model.Article, error)
	LatestPublishedAt(ctx context.Context) (time.Time, error)
	ExistingSlugs(ctx context.Context, slugs []string) ([]string, error)
	BackfillMissingImages(ctx context.Context, resolver storage.ImageResolver) (int, error)
}

type TopicSource interface {
	Discover(ctx context.Context) []model.TrendingTopic
}

type Config struct {
	// Как часто проверяем, не устарел ли контент
	Interval time.Duration
	// Если последняя статья старше окна, генерируем новые
	StalenessWindow time.Duration
	// Сколько новых статей создаем за один прогон
	BatchSize int
	// Сколько тем генерируем параллельно
	Concurrency int
	// Ограничение запросов к модели в секунду, 0 без ограничения
	RPS float64

	GenerationTimeout time.Duration
	ImageTimeout      time.Duration
}

// Pipeline превращает тему в сохраненную статью и периодически
// пополняет сайт статьями по трендовым темам
type Pipeline struct {
	generator Generator
	images    ImageResolver
	articles  ArticleStorage
	topics    TopicSource
	assembler *assembler.Assembler
	limiter   *rate.Limiter
	cfg       Config
	now       func() time.Time
}

func New(generator Generator, images ImageResolver, articles ArticleStorage, topics TopicSource, cfg Config) *Pipeline {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}

	return &Pipeline{
		generator: generator,
		images:    images,
		articles:  articles,
		topics:    topics,
		assembler: assembler.New(),
		limiter:   rate.NewLimiter(limit, 1),
		cfg:       cfg,
		now:       time.Now,
	}
}

// IsContentStale сообщает, пора ли генерировать новые статьи.
// Нулевое время значит, что статей еще нет.
func IsContentStale(latestPublishedAt, now time.Time, window time.Duration) bool {
	if latestPublishedAt.IsZero() {
		return true
	}

	return now.Sub(latestPublishedAt) > window
}

// Start работает как отдельный воркер: сразу делает прогон и повторяет его по тикеру.
// Ошибки прогона логируются, воркер останавливается только вместе с ctx.
func (p *Pipeline) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

func (p *Pipeline) run(ctx context.Context) {
	created, err := p.RunOnce(ctx)
	if err != nil {
		slog.Error("pipeline run failed", "error", err)
		return
	}

	if created > 0 {
		slog.Info("pipeline run finished", "created", created)
	}
}

// RunOnce чинит статьи без картинок и, если контент устарел,
// генерирует до BatchSize статей по новым трендовым темам
func (p *Pipeline) RunOnce(ctx context.Context) (int, error) {
	if n, err := p.articles.BackfillMissingImages(ctx, p.images); err != nil {
		slog.Error("backfill missing images", "error", err)
	} else if n > 0 {
		slog.Info("backfilled missing images", "count", n)
	}

	latest, err := p.articles.LatestPublishedAt(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest published at: %w", err)
	}

	if !IsContentStale(latest, p.now(), p.cfg.StalenessWindow) {
		slog.Debug("content is fresh, skipping generation", "latest", latest)
		return 0, nil
	}

	topics, err := p.NewTopics(ctx)
	if err != nil {
		return 0, err
	}

	if len(topics) == 0 {
		slog.Info("no new trending topics")
		return 0, nil
	}

	created := 0
	for _, res := range p.GenerateBatch(ctx, topics) {
		switch {
		case res.Err == nil:
			created++
		case errors.Is(res.Err, storage.ErrDuplicateSlug):
			slog.Info("topic already has an article", "topic", res.Topic)
		default:
			slog.Error("generate article", "topic", res.Topic, "error", res.Err)
		}
	}

	return created, nil
}

// NewTopics возвращает трендовые темы, для которых еще нет статьи, не больше BatchSize
func (p *Pipeline) NewTopics(ctx context.Context) ([]string, error) {
	// Разные темы могут дать один slug, оставляем первую
	titles := lo.UniqBy(lo.Map(p.topics.Discover(ctx), func(t model.TrendingTopic, _ int) string {
		return t.Title
	}), slug.Make)

	existing, err := p.articles.ExistingSlugs(ctx, lo.Map(titles, func(title string, _ int) string {
		return slug.Make(title)
	}))
	if err != nil {
		return nil, fmt.Errorf("existing slugs: %w", err)
	}

	known := set.New(existing...)

	fresh := make([]string, 0, p.cfg.BatchSize)
	for _, title := range titles {
		if len(fresh) == p.cfg.BatchSize {
			break
		}

		if known.Contains(slug.Make(title)) {
			continue
		}

		fresh = append(fresh, title)
	}

	return fresh, nil
}

type Result struct {
	Topic   string
	Article model.Article
	Err     error
}

// GenerateBatch генерирует статьи параллельно, не больше Concurrency одновременно.
// Результаты идут в порядке тем, ошибка одной темы не мешает остальным.
func (p *Pipeline) GenerateBatch(ctx context.Context, topics []string) []Result {
	results := make([]Result, len(topics))

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)

	for i, topic := range topics {
		i, topic := i, topic
		g.Go(func() error {
			article, err := p.Generate(ctx, topic)
			results[i] = Result{Topic: topic, Article: article, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Generate проводит одну тему через модель, подбор картинки, сборку и сохранение.
// Если модель не ответила, ничего не сохраняется.
func (p *Pipeline) Generate(ctx context.Context, topic string) (model.Article, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return model.Article{}, ErrEmptyTopic
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return model.Article{}, err
	}

	var (
		draft    model.Draft
		imageURL string
	)

	// Модель и картинку запрашиваем одновременно
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		genCtx, cancel := p.withTimeout(gctx, p.cfg.GenerationTimeout)
		defer cancel()

		d, err := p.generator.Generate(genCtx, topic)
		if err != nil {
			return fmt.Errorf("generate draft: %w", err)
		}

		draft = d
		return nil
	})
	g.Go(func() error {
		imageURL = p.resolveImage(gctx, topic)
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.RecordArticle("failed")
		return model.Article{}, err
	}

	return p.store(ctx, p.assembler.Assemble(topic, draft, imageURL))
}

// CreateStub сохраняет статью-заглушку без обращения к модели
func (p *Pipeline) CreateStub(ctx context.Context, topic string) (model.Article, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return model.Article{}, ErrEmptyTopic
	}

	return p.store(ctx, p.assembler.Stub(topic, p.resolveImage(ctx, topic)))
}

func (p *Pipeline) resolveImage(ctx context.Context, topic string) string {
	ctx, cancel := p.withTimeout(ctx, p.cfg.ImageTimeout)
	defer cancel()

	return p.images.Resolve(ctx, topic)
}

func (p *Pipeline) store(ctx context.Context, article model.Article) (model.Article, error) {
	stored, err := p.articles.Store(ctx, article)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateSlug) {
			metrics.RecordArticle("duplicate")
		} else {
			metrics.RecordArticle("failed")
		}

		return model.Article{}, err
	}

	metrics.RecordArticle("created")
	slog.Info("article stored", "slug", stored.Slug, "id", stored.ID)

	return stored, nil
}

func (p *Pipeline) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}
