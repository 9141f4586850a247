package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Counter and timer names used across the service.
const (
	HTTPRequestsTotal    = "http_requests_total"
	WebhookRequestsTotal = "webhook_requests_total"
	HTTPRequestDuration  = "http_request_duration"
)

// Webhook result labels.
const (
	ResultInvalidSignature = "invalid_signature"
	ResultCreated          = "created"
	ResultDuplicate        = "duplicate"
)

type counter struct {
	name   string
	labels map[string]string
	value  int64
}

type timerMetric struct {
	name   string
	labels map[string]string
	count  int64
	sumMS  float64
}

// Registry holds process-wide request counters. It is created once at
// startup and passed to the handlers that record into it; increments are
// serialized by the internal mutex so concurrent handlers never lose
// updates.
type Registry struct {
	mu        sync.RWMutex
	counters  map[string]*counter
	timers    map[string]*timerMetric
	startTime time.Time
}

// NewRegistry creates an empty metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters:  make(map[string]*counter),
		timers:    make(map[string]*timerMetric),
		startTime: time.Now(),
	}
}

// IncrementCounter increments a labeled counter by one.
func (r *Registry) IncrementCounter(name string, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := metricKey(name, labels)
	if c, exists := r.counters[key]; exists {
		c.value++
		return
	}
	r.counters[key] = &counter{
		name:   name,
		labels: copyLabels(labels),
		value:  1,
	}
}

// RecordTimer records one duration observation for a labeled timer.
func (r *Registry) RecordTimer(name string, duration time.Duration, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	durationMS := float64(duration.Nanoseconds()) / 1e6

	key := metricKey(name, labels)
	if tm, exists := r.timers[key]; exists {
		tm.count++
		tm.sumMS += durationMS
		return
	}
	r.timers[key] = &timerMetric{
		name:   name,
		labels: copyLabels(labels),
		count:  1,
		sumMS:  durationMS,
	}
}

// IncHTTPRequest records one HTTP request outcome as a (path, status) pair.
func (r *Registry) IncHTTPRequest(path string, status int) {
	r.IncrementCounter(HTTPRequestsTotal, map[string]string{
		"path":   path,
		"status": strconv.Itoa(status),
	})
}

// IncWebhookResult records one webhook processing result.
func (r *Registry) IncWebhookResult(result string) {
	r.IncrementCounter(WebhookRequestsTotal, map[string]string{
		"result": result,
	})
}

// CounterValue returns the current value of a counter, or 0 when the counter
// has never been incremented.
func (r *Registry) CounterValue(name string, labels map[string]string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, exists := r.counters[metricKey(name, labels)]; exists {
		return c.value
	}
	return 0
}

// Uptime reports how long the registry has existed.
func (r *Registry) Uptime() time.Duration {
	return time.Since(r.startTime)
}

// RenderText produces the plain-text exposition: one newline-terminated line
// per populated counter, `name{label="value",...} count`, followed by
// count/sum lines per timer. Lines are emitted in sorted key order so the
// output is stable between calls.
func (r *Registry) RenderText() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.counters))
	for key := range r.counters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		c := r.counters[key]
		fmt.Fprintf(&b, "%s%s %d\n", c.name, renderLabels(c.labels), c.value)
	}

	timerKeys := make([]string, 0, len(r.timers))
	for key := range r.timers {
		timerKeys = append(timerKeys, key)
	}
	sort.Strings(timerKeys)

	for _, key := range timerKeys {
		tm := r.timers[key]
		labels := renderLabels(tm.labels)
		fmt.Fprintf(&b, "%s_count%s %d\n", tm.name, labels, tm.count)
		fmt.Fprintf(&b, "%s_sum_ms%s %s\n", tm.name, labels, strconv.FormatFloat(tm.sumMS, 'f', 3, 64))
	}

	return b.String()
}

func renderLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s=%q", name, labels[name]))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func metricKey(name string, labels map[string]string) string {
	return name + renderLabels(labels)
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}

	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	return copied
}
