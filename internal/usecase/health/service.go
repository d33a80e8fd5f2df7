package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the search backend is unreachable.
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

// Component names in Report.Checks.
const (
	ComponentSearch  = "elasticsearch"
	ComponentCache   = "cache"
	ComponentSummary = "summary"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// ProbeTimeout bounds each component probe so one hung dependency cannot
// stall the endpoint.
const ProbeTimeout = 2 * time.Second

// Service coordinates health checks.
type Service struct {
	search  Pinger
	cache   Pinger
	summary ProviderChecker
}

// New creates a Service. cache and summary can be nil.
func New(search Pinger, cache Pinger, summary ProviderChecker) *Service {
	return &Service{search: search, cache: cache, summary: summary}
}

// Check probes all components concurrently. The search backend is required;
// the rest only degrade the status.
func (s *Service) Check(ctx context.Context) Report {
	probes := map[string]func(context.Context) error{
		ComponentSearch: s.search.Ping,
	}
	if s.cache != nil {
		probes[ComponentCache] = s.cache.Ping
	}
	if s.summary != nil {
		probes[ComponentSummary] = s.summary.HealthCheck
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(probes))
	)
	for name, probe := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()
			res := result(probe(pctx))
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[ComponentSearch] == CheckError {
		status = Unhealthy
	}
	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
