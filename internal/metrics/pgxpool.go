package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPgxPoolMetrics exposes the catalog/document pool's connection
// statistics under the backupd namespace.
func RegisterPgxPoolMetrics(pool *pgxpool.Pool) {
	gauges := []struct {
		name string
		help string
		read func(*pgxpool.Stat) float64
	}{
		{"backupd_db_pool_acquired_conns", "Connections currently checked out of the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }},
		{"backupd_db_pool_idle_conns", "Connections sitting idle in the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }},
		{"backupd_db_pool_total_conns", "Total connections held by the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }},
		{"backupd_db_pool_max_conns", "Configured pool connection ceiling",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }},
	}

	for _, g := range gauges {
		read := g.read
		prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: g.name,
			Help: g.help,
		}, func() float64 {
			return read(pool.Stat())
		}))
	}

	// Acquire waits grow monotonically, so they are counters, not gauges.
	prometheus.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "backupd_db_pool_empty_acquires_total",
		Help: "Acquires that had to wait because the pool was empty",
	}, func() float64 {
		return float64(pool.Stat().EmptyAcquireCount())
	}))
}
