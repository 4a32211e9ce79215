package richtext

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FallbacksTotal считает случаи, когда входные данные не удалось восстановить
// и вместо них был возвращен канонический пустой документ.
var FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "assessment",
	Subsystem: "richtext",
	Name:      "fallbacks_total",
	Help:      "Malformed rich text inputs degraded to the empty document",
}, []string{"op"})

// Collectors возвращает метрики пакета для регистрации сервером.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{FallbacksTotal}
}
