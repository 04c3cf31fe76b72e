// Package metrics exposes Prometheus-format counters for the contact service
// and the HTTP layer.
package metrics

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var (
	set     = metrics.NewSet()
	buckets = metrics.ExponentialBuckets(1e-3, 5, 6) //nolint: mnd // arbitrary
)

// Mutation counts a contact service transition. op is add, remove, toggle;
// result is ok, duplicate, invalid or not_found.
func Mutation(op, result string) {
	set.GetOrCreateCounter(name("contactos_mutations_total", "op", op, "result", result)).Inc()
}

// StoreFailure counts a failed load or save.
func StoreFailure(op string) {
	set.GetOrCreateCounter(name("contactos_store_failures_total", "op", op)).Inc()
}

// SetContacts records the current collection size.
func SetContacts(n int) {
	set.GetOrCreateGauge("contactos_contacts", nil).Set(float64(n))
}

// Request records one served HTTP request.
func Request(method, path string, status int, start time.Time) {
	s := strconv.Itoa(status)
	set.GetOrCreateCounter(name("http_requests_total", "method", method, "path", path, "status", s)).Inc()
	set.GetOrCreatePrometheusHistogramExt(
		name("http_request_duration_seconds", "method", method, "path", path, "status", s), buckets,
	).UpdateDuration(start)
}

// WritePrometheus writes all metrics, including process metrics.
func WritePrometheus(w io.Writer) {
	set.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

// name builds `metric{k1="v1",k2="v2"}` from alternating label keys and values.
func name(metric string, kv ...string) string {
	if len(kv) == 0 {
		return metric
	}
	var b strings.Builder
	b.WriteString(metric)
	b.WriteByte('{')
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(kv[i])
		b.WriteString(`="`)
		b.WriteString(strings.ReplaceAll(kv[i+1], `"`, `\"`))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}
