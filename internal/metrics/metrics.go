// Package metrics tracks what the server has sent since it started.
package metrics

import (
	"fmt"
	"sync/atomic"
	"time"
)

// ServeMetrics counts responses. All methods are safe for concurrent use.
type ServeMetrics struct {
	StartTime time.Time

	requests     atomic.Int64
	bytesWritten atomic.Int64
	// Indexed by status class: 0 = 1xx, 1 = 2xx ... 4 = 5xx.
	classes [5]atomic.Int64
}

// NewServeMetrics creates a new metrics instance.
func NewServeMetrics() *ServeMetrics {
	return &ServeMetrics{
		StartTime: time.Now(),
	}
}

// RecordResponse records one finished response.
func (m *ServeMetrics) RecordResponse(status int, bytes int64) {
	m.requests.Add(1)
	m.bytesWritten.Add(bytes)
	if class := status/100 - 1; class >= 0 && class < len(m.classes) {
		m.classes[class].Add(1)
	}
}

// Requests returns the number of responses recorded.
func (m *ServeMetrics) Requests() int64 {
	return m.requests.Load()
}

// BytesWritten returns the total body bytes written.
func (m *ServeMetrics) BytesWritten() int64 {
	return m.bytesWritten.Load()
}

// StatusClass returns the count for a class digit (2 for 2xx).
func (m *ServeMetrics) StatusClass(digit int) int64 {
	if digit < 1 || digit > len(m.classes) {
		return 0
	}
	return m.classes[digit-1].Load()
}

// Uptime returns the time since the metrics were created.
func (m *ServeMetrics) Uptime() time.Duration {
	return time.Since(m.StartTime)
}

// String returns a single-line summary.
func (m *ServeMetrics) String() string {
	return fmt.Sprintf("📊 Served %d requests in %v (2xx: %d, 3xx: %d, 4xx: %d, 5xx: %d, %s)\n",
		m.Requests(),
		m.Uptime().Round(time.Second),
		m.StatusClass(2),
		m.StatusClass(3),
		m.StatusClass(4),
		m.StatusClass(5),
		formatBytes(m.BytesWritten()),
	)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
