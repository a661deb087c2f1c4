package httpmetrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pulse/internal/adapters/http/httpmetrics"
	"github.com/okian/pulse/pkg/metrics"
)

func TestMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with metrics", t, func() {
		h := httpmetrics.Middleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("missing"))
		}, "test_endpoint")

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/missing", http.NoBody))

		Convey("Then the response passes through unchanged", func() {
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldEqual, "missing")
		})

		Convey("Then request and error series are recorded", func() {
			n, err := testutil.GatherAndCount(metrics.GetRegistry(),
				"pulse_dashboard_http_requests_total",
				"pulse_dashboard_errors_by_endpoint_total",
			)
			So(err, ShouldBeNil)
			So(n, ShouldBeGreaterThanOrEqualTo, 2)
		})
	})
}

func TestErrorType(t *testing.T) {
	Convey("Given HTTP status codes", t, func() {
		So(httpmetrics.ErrorType(502), ShouldEqual, "upstream_error")
		So(httpmetrics.ErrorType(500), ShouldEqual, "server_error")
		So(httpmetrics.ErrorType(429), ShouldEqual, "rate_limit")
		So(httpmetrics.ErrorType(404), ShouldEqual, "not_found")
		So(httpmetrics.ErrorType(400), ShouldEqual, "client_error")
		So(httpmetrics.ErrorType(200), ShouldEqual, "unknown")
	})
}
