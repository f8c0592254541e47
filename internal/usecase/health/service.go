package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates image search is unavailable but lookups still work.
	Degraded Status = "degraded"
	// Unhealthy indicates storage is unreachable.
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

// Component names reported in Report.Checks.
const (
	ComponentStorage    = "storage"
	ComponentClassifier = "classifier"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	storage    StoragePinger
	classifier ClassifierChecker
}

// New creates a Service. classifier can be nil.
func New(storage StoragePinger, classifier ClassifierChecker) *Service {
	return &Service{storage: storage, classifier: classifier}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.storage.Ping(ctx); err != nil {
		checks[ComponentStorage] = CheckError
	} else {
		checks[ComponentStorage] = CheckOK
	}

	if s.classifier != nil {
		if err := s.classifier.HealthCheck(ctx); err != nil {
			checks[ComponentClassifier] = CheckError
		} else {
			checks[ComponentClassifier] = CheckOK
		}
	}

	status := Healthy
	switch {
	case checks[ComponentStorage] == CheckError:
		status = Unhealthy
	case checks[ComponentClassifier] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
