package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.CredentialsIssued("standard", 3)
	m.CredentialsIssued("observer", 1)
	m.IssueFailed("2002")
	m.DirectoryCall("list_rooms", "ok")

	if got := testutil.ToFloat64(m.credentialsIssued.WithLabelValues("standard")); got != 3 {
		t.Fatalf("standard credentials=%v, want 3", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`roomkey_credentials_issued_total{role="observer"} 1`,
		`roomkey_issue_failures_total{code="2002"} 1`,
		`roomkey_directory_requests_total{op="list_rooms",result="ok"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
