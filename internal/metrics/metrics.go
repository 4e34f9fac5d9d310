// Метрики Prometheus для пайплайна генерации
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Сколько раз пайплайн сохранял статью, с разбивкой по исходу
	ArticlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trendwise",
			Name:      "articles_total",
			Help:      "Total number of article generation runs",
		},
		[]string{"status"},
	)

	// Ответы модели, которые не разобрались как черновик
	DraftFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trendwise",
			Name:      "draft_fallbacks_total",
			Help:      "Total number of model responses replaced by a synthesized draft",
		},
	)

	// Подборы картинки, закончившиеся картинкой по умолчанию
	ImageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trendwise",
			Name:      "image_fallbacks_total",
			Help:      "Total number of image resolutions that returned the default image",
		},
		[]string{"reason"},
	)

	// Источники трендов, замененные своим статическим списком
	TrendingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trendwise",
			Name:      "trending_fallbacks_total",
			Help:      "Total number of trending backend failures",
		},
		[]string{"backend"},
	)

	// Статьи, которым проставили картинку задним числом
	ImagesBackfilled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trendwise",
			Name:      "images_backfilled_total",
			Help:      "Total number of articles whose missing image was backfilled",
		},
	)
)

// RecordArticle учитывает исход одной попытки сохранить статью
func RecordArticle(status string) {
	ArticlesTotal.WithLabelValues(status).Inc()
}
