// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vidcatalog"

var (
	// CatalogOperationsTotal tracks service-level catalog operations.
	// Labels:
	//   - operation: create, get, search, delete, list_deleted, list_by_type, similar
	//   - result: ok, invalid, conflict, not_found, not_applied, error
	CatalogOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_operations_total",
			Help:      "Total number of catalog operations",
		},
		[]string{"operation", "result"},
	)

	// CacheOperationsTotal tracks cache operations (get, set, add).
	// Labels:
	//   - operation: get, set, add
	//   - status: hit, miss, success, error
	//   - cache_type: redis
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// DBQueriesTotal tracks database queries.
	// Labels:
	//   - query_type: select, insert, upsert, update
	//   - table: videos, video_deletions
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// EventsPublishedTotal tracks catalog events sent to the broker.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of catalog events published",
		},
		[]string{"kind", "status"},
	)

	// BootstrapEntriesTotal tracks catalog entries processed at startup.
	BootstrapEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstrap_entries_total",
			Help:      "Total number of bootstrap catalog entries by outcome",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal tracks served HTTP requests by route pattern.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks HTTP latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Catalog operation constants.
const (
	OpCreate      = "create"
	OpGet         = "get"
	OpSearch      = "search"
	OpDelete      = "delete"
	OpListDeleted = "list_deleted"
	OpListByType  = "list_by_type"
	OpSimilar     = "similar"
)

// Catalog operation result constants.
const (
	ResultOK         = "ok"
	ResultInvalid    = "invalid"
	ResultConflict   = "conflict"
	ResultNotFound   = "not_found"
	ResultNotApplied = "not_applied"
	ResultError      = "error"
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpAdd    = "add"
)

// Cache type constants.
const (
	CacheTypeRedis = "redis"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
	DBQueryUpsert = "upsert"
	DBQueryUpdate = "update"
)

// Table name constants.
const (
	TableVideos    = "videos"
	TableDeletions = "video_deletions"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// Publish status constants.
const (
	PublishSuccess = "success"
	PublishError   = "error"
)
