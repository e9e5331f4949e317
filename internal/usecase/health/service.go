package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results. Provider checks are advisory:
// a degraded report never blocks the serving API, it only informs callers.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog  CatalogInfo
	metadata ReachabilityProber
	summary  SummaryChecker
}

// New creates a Service. metadata and summary can be nil.
func New(catalog CatalogInfo, metadata ReachabilityProber, summary SummaryChecker) *Service {
	return &Service{catalog: catalog, metadata: metadata, summary: summary}
}

// Check runs health checks against all components. Every check runs anew;
// probe results are never cached.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.catalog.Len() > 0 {
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	if s.metadata != nil {
		if s.metadata.Reachable(ctx) {
			checks["metadata_provider"] = CheckOK
		} else {
			checks["metadata_provider"] = CheckError
		}
	}

	if s.summary != nil {
		if err := s.summary.HealthCheck(ctx); err != nil {
			checks["summary_provider"] = CheckError
		} else {
			checks["summary_provider"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
