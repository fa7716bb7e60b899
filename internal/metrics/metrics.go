// Package metrics provides hooks for instrumentation and their Prometheus
// implementation.
package metrics

import "time"

// Login outcomes passed to IncLogin.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncRateLimited(route string)

	// Account metrics
	IncUserRegistered()
	IncLogin(result string)
	AddSessionsSwept(n int64)

	// Ledger metrics
	IncGroupCreated()
	IncBillCreated()
}

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return NoopRecorder{}
}

func (NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
func (NoopRecorder) IncRateLimited(route string) {}
func (NoopRecorder) IncUserRegistered() {}
func (NoopRecorder) IncLogin(result string) {}
func (NoopRecorder) AddSessionsSwept(n int64) {}
func (NoopRecorder) IncGroupCreated() {}
func (NoopRecorder) IncBillCreated() {}
