package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the pulse namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "pulse")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.customLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When creating with empty values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "pulse")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
				So(manager.customLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording upstream metrics", func() {
			before := testutil.ToFloat64(globalManager.upstreamRequests.WithLabelValues("200"))
			RecordUpstreamRequest("200")
			RecordUpstreamLatency(42)
			RecordUpstreamError("status")

			Convey("Then the counters should move", func() {
				So(testutil.ToFloat64(globalManager.upstreamRequests.WithLabelValues("200")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.upstreamErrors.WithLabelValues("status")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording dashboard state", func() {
			UpdatePatientsLoaded(3)
			before := testutil.ToFloat64(globalManager.selections)
			RecordSelection()
			RecordBootstrap("ok")

			Convey("Then gauges and counters reflect it", func() {
				So(testutil.ToFloat64(globalManager.patientsLoaded), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.selections), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.bootstraps.WithLabelValues("ok")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording renders and HTTP metrics", func() {
			So(func() {
				RecordRender("page", 1.5)
				RecordRenderError("chart")
				RecordHTTPRequest("page", "GET", "200")
				RecordHTTPRequestDuration("page", "GET", "200", 3)
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("page", "GET", "not_found")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)

			Convey("Then the registry should expose pulse metrics", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["pulse_dashboard_renders_total"], ShouldBeTrue)
				So(names["pulse_dashboard_http_requests_total"], ShouldBeTrue)
				So(names["pulse_dashboard_system_goroutine_count"], ShouldBeTrue)
			})
		})

		Convey("When recording metrics concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					RecordSelection()
					RecordRender("detail", 1)
				}()
			}
			wg.Wait()

			Convey("Then it should not race or panic", func() {
				So(testutil.ToFloat64(globalManager.selections), ShouldBeGreaterThanOrEqualTo, 10)
			})
		})
	})
}
