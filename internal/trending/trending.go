package trending

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kovalyov-valentin/trendwise/internal/metrics"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Сколько тем отдаем после дедупликации
const DefaultLimit = 15

// Источник трендовых тем. Fetch может упасть, Fallback нет.
type Backend interface {
	Name() string
	Fetch(ctx context.Context) ([]model.TrendingTopic, error)
	// Статический список на случай ошибки Fetch
	Fallback() []model.TrendingTopic
}

type Discoverer struct {
	backends []Backend
	// Таймаут на каждый источник, по его истечении берем fallback
	timeout time.Duration
	limit   int
}

func NewDiscoverer(timeout time.Duration, backends ...Backend) *Discoverer {
	return &Discoverer{
		backends: backends,
		timeout:  timeout,
		limit:    DefaultLimit,
	}
}

// Discover опрашивает все источники параллельно и никогда не падает.
// Ошибка одного источника заменяется его собственным fallback списком.
func (d *Discoverer) Discover(ctx context.Context) []model.TrendingTopic {
	results := make([][]model.TrendingTopic, len(d.backends))

	var g errgroup.Group
	for i, backend := range d.backends {
		i, backend := i, backend
		g.Go(func() error {
			results[i] = d.fetch(ctx, backend)
			return nil
		})
	}
	_ = g.Wait()

	return Dedup(lo.Flatten(results), d.limit)
}

func (d *Discoverer) fetch(ctx context.Context, backend Backend) []model.TrendingTopic {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	topics, err := backend.Fetch(ctx)
	if err != nil {
		slog.Warn("trending backend failed, using fallback", "backend", backend.Name(), "error", err)
		metrics.TrendingFallbacks.WithLabelValues(backend.Name()).Inc()
		return backend.Fallback()
	}

	return topics
}

// Dedup убирает повторы по заголовку без учета регистра, первое вхождение выигрывает.
// Пустые заголовки отбрасываются, результат обрезается до limit.
func Dedup(topics []model.TrendingTopic, limit int) []model.TrendingTopic {
	topics = lo.Filter(topics, func(t model.TrendingTopic, _ int) bool {
		return strings.TrimSpace(t.Title) != ""
	})

	unique := lo.UniqBy(topics, func(t model.TrendingTopic) string {
		return strings.ToLower(strings.TrimSpace(t.Title))
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}

	return unique
}

// Backends собирает источники в том порядке, в котором их темы идут в выдачу.
// Страница трендов подключается, только если задан ее адрес.
func Backends(rssURL, pageURL, pageSelector string, timeout time.Duration) []Backend {
	backends := []Backend{NewRSSBackend(rssURL, timeout)}

	if pageURL != "" {
		backends = append(backends, NewPageBackend(pageURL, pageSelector, timeout))
	}

	return append(backends, NewSocialBackend())
}
