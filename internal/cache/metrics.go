package cache

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectra_cache_hits_total",
		Help: "Cache hits by key prefix.",
	}, []string{"prefix"})

	missesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectra_cache_misses_total",
		Help: "Cache misses by key prefix.",
	}, []string{"prefix"})

	corruptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectra_cache_corruptions_total",
		Help: "Cache entries dropped as unparseable, by key prefix.",
	}, []string{"prefix"})

	invalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spectra_cache_invalidations_total",
		Help: "Invalidation operations issued, by key prefix.",
	}, []string{"prefix"})
)

// keyPrefix 取第一个冒号前的部分作为指标维度，避免标签基数爆炸
func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

func countHit(key string)        { hitsTotal.WithLabelValues(keyPrefix(key)).Inc() }
func countMiss(key string)       { missesTotal.WithLabelValues(keyPrefix(key)).Inc() }
func countCorruption(key string) { corruptionsTotal.WithLabelValues(keyPrefix(key)).Inc() }

// CountInvalidation 由失效引擎上报
func CountInvalidation(keyOrPattern string) {
	invalidationsTotal.WithLabelValues(keyPrefix(keyOrPattern)).Inc()
}
