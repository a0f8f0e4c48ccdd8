package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backupsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backups_created_total",
			Help: "Total number of backups created",
		},
		[]string{"type"},
	)

	backupDocumentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_documents_total",
			Help: "Total number of documents written into backup artifacts",
		},
	)

	restoresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "restores_total",
			Help: "Total number of restore operations",
		},
	)

	restoredDocumentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "restored_documents_total",
			Help: "Total number of documents written back during restores",
		},
	)
)
