package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestName(t *testing.T) {
	tests := []struct {
		metric string
		kv     []string
		want   string
	}{
		{"plain", nil, "plain"},
		{"m", []string{"op", "add"}, `m{op="add"}`},
		{"m", []string{"op", "add", "result", "ok"}, `m{op="add",result="ok"}`},
		{"m", []string{"path", `a"b`}, `m{path="a\"b"}`},
	}
	for _, tt := range tests {
		if got := name(tt.metric, tt.kv...); got != tt.want {
			t.Errorf("name(%q, %v) = %q, want %q", tt.metric, tt.kv, got, tt.want)
		}
	}
}

func TestWritePrometheus(t *testing.T) {
	Mutation("add", "ok")
	StoreFailure("save")
	SetContacts(3)
	Request("GET", "/api/contacts", 200, time.Now())

	var buf bytes.Buffer
	WritePrometheus(&buf)
	out := buf.String()

	for _, want := range []string{
		`contactos_mutations_total{op="add",result="ok"}`,
		`contactos_store_failures_total{op="save"}`,
		`contactos_contacts 3`,
		`http_requests_total{method="GET",path="/api/contacts",status="200"}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s", want)
		}
	}
}

func TestRequest_PrometheusHistogramBuckets(t *testing.T) {
	Request("DELETE", "DELETE /api/contacts/{id}", 404, time.Now().Add(-3*time.Millisecond))

	var buf bytes.Buffer
	WritePrometheus(&buf)
	out := buf.String()

	labels := `method="DELETE",path="DELETE /api/contacts/{id}",status="404"`
	for _, want := range []string{
		`http_request_duration_seconds_bucket{` + labels + `,le="+Inf"} 1`,
		`http_request_duration_seconds_count{` + labels + `} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s\n%s", want, out)
		}
	}
}
