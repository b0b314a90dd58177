package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all configured components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; search still answers.
	Degraded Status = "degraded"
	// Unhealthy indicates the document store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled indicates the component is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Component names.
const (
	Database  = "database"
	Cache     = "cache"
	Embedding = "embedding"
	LLM       = "llm"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Deps are the checked components. Any field except DB may be nil, which reports it disabled.
type Deps struct {
	DB        Pinger
	Cache     Pinger
	Embedding ProviderChecker
	LLM       ProviderChecker
}

// Service coordinates health checks.
type Service struct {
	deps    Deps
	timeout time.Duration
}

// New creates a Service.
func New(deps Deps, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Service{deps: deps, timeout: timeout}
}

// Check runs all component checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]func(context.Context) error{
		Database: s.deps.DB.Ping,
	}
	if s.deps.Cache != nil {
		checks[Cache] = s.deps.Cache.Ping
	}
	if s.deps.Embedding != nil {
		checks[Embedding] = s.deps.Embedding.HealthCheck
	}
	if s.deps.LLM != nil {
		checks[LLM] = s.deps.LLM.HealthCheck
	}

	results := map[string]CheckResult{
		Cache:     CheckDisabled,
		Embedding: CheckDisabled,
		LLM:       CheckDisabled,
	}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res := CheckOK
			if err := check(cctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := Healthy
	for _, v := range results {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if results[Database] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: results}
}
