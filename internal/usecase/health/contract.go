package health

import "context"

// CatalogInfo reports the loaded catalog size.
type CatalogInfo interface {
	Len() int
}

// ReachabilityProber checks metadata provider availability.
type ReachabilityProber interface {
	Reachable(ctx context.Context) bool
}

// SummaryChecker checks summary provider availability.
type SummaryChecker interface {
	HealthCheck(ctx context.Context) error
}
