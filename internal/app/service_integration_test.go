package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/pulse/internal/adapters/upstream"
	service "github.com/okian/pulse/internal/app"
	"github.com/okian/pulse/internal/domain/dashboard"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	body, err := os.ReadFile("../domain/patient/testdata/patients.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	Convey("Given a service wired to an HTTP patient API", t, func() {
		var hits atomic.Int32
		var failing atomic.Bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if u, p, ok := r.BasicAuth(); !ok || u != "coalition" || p != "skills-test" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if failing.Load() {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write(body)
		}))
		defer srv.Close()

		svc := service.New(service.WithSource(upstream.New(upstream.WithURL(srv.URL))))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the collection is loaded with one request", func() {
				So(hits.Load(), ShouldEqual, 1)
				page, err := svc.Page(ctx)
				So(err, ShouldBeNil)
				So(page.Entries, ShouldHaveLength, 3)
				So(page.Detail.Profile.Name, ShouldEqual, "Emily Williams")
			})

			Convey("Then the vitals show the last history entry", func() {
				page, _ := svc.Page(ctx)
				v := page.Detail.Vitals
				So(v.Systolic.Value, ShouldEqual, "120")
				So(v.Diastolic.Trend, ShouldEqual, dashboard.TrendUp)
				So(v.RespiratoryRate.Value, ShouldEqual, "15 bpm")
				So(v.RespiratoryRate.Trend, ShouldEqual, dashboard.TrendDown)
				So(v.Temperature.Value, ShouldEqual, "99.1°F")
			})

			Convey("Then selecting a patient without history renders empty components", func() {
				d, err := svc.SelectDetail(ctx, 2)
				So(err, ShouldBeNil)
				So(d.Chart.Systolic, ShouldBeEmpty)
				So(d.Diagnostics, ShouldBeEmpty)
				So(d.LabResults, ShouldBeEmpty)
			})

			Convey("When the API starts failing and the user reloads", func() {
				failing.Store(true)
				err := svc.Reload(ctx)

				Convey("Then the page switches to the alert", func() {
					So(err, ShouldNotBeNil)
					page, _ := svc.Page(ctx)
					So(page.Entries, ShouldBeEmpty)
					So(page.LoadError.StatusCode, ShouldEqual, http.StatusBadGateway)
				})
			})
		})
	})
}
