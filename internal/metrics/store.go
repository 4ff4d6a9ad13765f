// Package metrics define los contadores Prometheus del authorization
// store. Viven en su propio package para evitar ciclos de import entre
// storage y HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authstore_ops_total",
		Help: "Operaciones del authorization store por entidad, operación y resultado",
	}, []string{"entity", "op", "result"})

	StoreOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "authstore_op_latency_ms",
		Help:    "Latencia de las operaciones del store en milisegundos",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"entity", "op"})

	CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authstore_cache_hits_total",
		Help: "Hits del cache de registered clients",
	}, []string{"result"})
)

// RegisterStore registra las métricas del store en el registry dado
// (o el default si es nil). Registrar dos veces no es error.
func RegisterStore(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{StoreOps, StoreOpLatency, CacheHits} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
