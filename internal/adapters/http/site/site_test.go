package site_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pulse/internal/adapters/http/site"
	"github.com/okian/pulse/internal/adapters/repository"
	"github.com/okian/pulse/internal/domain/dashboard"
	"github.com/okian/pulse/internal/domain/patient"
	"github.com/okian/pulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func patients() []patient.Patient {
	return []patient.Patient{
		{
			Name: "Emily Williams", Gender: "Female", Age: 18, ProfilePicture: "https://example.com/emily.png",
			DateOfBirth: "2006-08-19", PhoneNumber: "(711) 984-6696", EmergencyContact: "(680) 653-9512",
			InsuranceType: "Premier Auto Corporation",
			DiagnosisHistory: []patient.DiagnosisHistory{{
				Month: "March", Year: 2024,
				BloodPressure: patient.BloodPressure{
					Systolic:  patient.Measurement{Value: 160, Levels: patient.LevelHigherThanAverage},
					Diastolic: patient.Measurement{Value: 78, Levels: patient.LevelLowerThanAverage},
				},
				HeartRate:       patient.Measurement{Value: 78, Levels: "Normal"},
				RespiratoryRate: patient.Measurement{Value: 20, Levels: "Normal"},
				Temperature:     patient.Measurement{Value: 98.6, Levels: "Normal"},
			}},
			DiagnosticList: []patient.Diagnostic{
				{Name: "Hypertension", Description: "Chronic high blood pressure", Status: "Under Observation"},
				{Name: "Asthma", Description: "Bronchial constriction", Status: "Cured"},
			},
			LabResults: []string{"Blood Tests", "CT Scans", "Radiology Reports"},
		},
		{Name: "Ryan Johnson", Gender: "Male", Age: 45},
		{Name: "Jessica <Taylor>", Gender: "Female", Age: 28},
	}
}

// fakeDeps keeps a selection slot over a fixed collection.
type fakeDeps struct {
	patients []patient.Patient
	selected int
	loadErr  *dashboard.LoadError
}

func (f *fakeDeps) Page(context.Context) (dashboard.Page, error) {
	if f.loadErr != nil {
		return dashboard.FailedPage(f.loadErr.StatusCode), nil
	}
	return dashboard.BuildPage(f.patients, f.selected, dashboard.DefaultChartConfig()), nil
}

func (f *fakeDeps) get(index int) (patient.Patient, error) {
	if index < 0 || index >= len(f.patients) {
		return patient.Patient{}, fmt.Errorf("%w: %d", repository.ErrIndexOutOfRange, index)
	}
	return f.patients[index], nil
}

func (f *fakeDeps) Select(ctx context.Context, index int) (dashboard.Page, error) {
	if _, err := f.get(index); err != nil {
		return dashboard.Page{}, err
	}
	f.selected = index
	return f.Page(ctx)
}

func (f *fakeDeps) SelectDetail(_ context.Context, index int) (dashboard.Detail, error) {
	p, err := f.get(index)
	if err != nil {
		return dashboard.Detail{}, err
	}
	f.selected = index
	return dashboard.BuildDetail(index, p, dashboard.DefaultChartConfig()), nil
}

func (f *fakeDeps) Chart(_ context.Context, index int) (dashboard.BloodPressureChart, error) {
	p, err := f.get(index)
	if err != nil {
		return dashboard.BloodPressureChart{}, err
	}
	return dashboard.BuildChart(p.DiagnosisHistory, dashboard.DefaultChartConfig()), nil
}

func newRouter(deps site.Dependencies) chi.Router {
	h, err := site.NewHandler(deps)
	if err != nil {
		panic(err)
	}
	r := chi.NewRouter()
	h.Register(context.Background(), r)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return w
}

var selectedEntry = regexp.MustCompile(`class="patients-info-list selected" id="patient-(\d+)"`)

func selectedIDs(body string) []string {
	var ids []string
	for _, m := range selectedEntry.FindAllStringSubmatch(body, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

func TestHandler_Page(t *testing.T) {
	Convey("Given a loaded collection of three patients", t, func() {
		deps := &fakeDeps{patients: patients()}
		r := newRouter(deps)

		Convey("When requesting the page", func() {
			w := get(r, "/")
			body := w.Body.String()

			Convey("Then three list entries are rendered with the first selected", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(body, ShouldContainSubstring, `id="patients-list-container"`)
				So(strings.Count(body, `class="patients-info-list`), ShouldEqual, 3)
				So(selectedIDs(body), ShouldResemble, []string{"0"})
			})

			Convey("Then the profile slots are filled", func() {
				So(body, ShouldContainSubstring, `id="patient-selected-img" src="https://example.com/emily.png"`)
				So(body, ShouldContainSubstring, `id="patient-container-name">Emily Williams<`)
				So(body, ShouldContainSubstring, `id="patient-dob">2006-08-19<`)
				So(body, ShouldContainSubstring, `id="patient-insurance">Premier Auto Corporation<`)
			})

			Convey("Then diagnostics and lab results keep count and order", func() {
				So(body, ShouldContainSubstring, `id="diagnostic-table-data"`)
				So(strings.Count(body, "<td>Hypertension</td>")+strings.Count(body, "<td>Asthma</td>"), ShouldEqual, 2)
				So(strings.Index(body, "Hypertension"), ShouldBeLessThan, strings.Index(body, "Asthma"))
				So(strings.Count(body, `class="lab-result"`), ShouldEqual, 3)
			})

			Convey("Then vitals show values and trend arrows", func() {
				So(body, ShouldContainSubstring, `id="systolic-number">160<`)
				So(body, ShouldContainSubstring, `ArrowUp.svg" alt="Arrow pointing up"> Higher than Average`)
				So(body, ShouldContainSubstring, `ArrowDown.svg" alt="Arrow pointing down"> Lower than Average`)
				So(body, ShouldContainSubstring, `id="respiratory-num">20 bpm<`)
				So(body, ShouldContainSubstring, `id="temperature-num">98.6°F<`)
				So(body, ShouldContainSubstring, `id="heart-rate-result">Normal<`)
			})

			Convey("Then the chart frame points at the chart document", func() {
				So(body, ShouldContainSubstring, `id="blood-pressure-chart-container"`)
				So(body, ShouldContainSubstring, `id="myChart"`)
				So(body, ShouldContainSubstring, `src="/patients/0/chart"`)
			})

			Convey("Then patient text is escaped", func() {
				So(body, ShouldContainSubstring, "Jessica &lt;Taylor&gt;")
				So(body, ShouldNotContainSubstring, "Jessica <Taylor>")
			})

			Convey("Then no alert is rendered", func() {
				So(body, ShouldNotContainSubstring, `id="load-error"`)
			})
		})

		Convey("When selecting index 2 after index 0", func() {
			w := get(r, "/patients/2")
			body := w.Body.String()

			Convey("Then only entry 2 carries the selected marker", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(selectedIDs(body), ShouldResemble, []string{"2"})
				So(deps.selected, ShouldEqual, 2)
			})

			Convey("Then the empty components render without rows", func() {
				So(body, ShouldNotContainSubstring, "<td>")
				So(body, ShouldNotContainSubstring, `class="lab-result"`)
				So(body, ShouldContainSubstring, `id="systolic-number"><`)
			})
		})

		Convey("When selecting past the end", func() {
			w := get(r, "/patients/3")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(deps.selected, ShouldEqual, 0)
		})

		Convey("When the index is malformed", func() {
			w := get(r, "/patients/x")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, site.ErrBadIndex.Error())
			So(get(r, "/patients/-1/detail").Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given a failed load", t, func() {
		deps := &fakeDeps{loadErr: &dashboard.LoadError{StatusCode: 500, Message: dashboard.LoadErrorMessage}}
		w := get(newRouter(deps), "/")
		body := w.Body.String()

		Convey("Then the page shows the blocking alert and no entries", func() {
			So(w.Code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, `id="load-error"`)
			So(body, ShouldContainSubstring, `role="alert"`)
			So(body, ShouldContainSubstring, "alert(")
			So(body, ShouldContainSubstring, "API error! Unable to load patient data.")
			So(body, ShouldNotContainSubstring, `id="patient-0"`)
			So(body, ShouldNotContainSubstring, `id="patient-container-name"`)
		})
	})
}

func TestHandler_Detail(t *testing.T) {
	Convey("Given a loaded collection", t, func() {
		deps := &fakeDeps{patients: patients()}
		r := newRouter(deps)

		Convey("When requesting the detail fragment of patient 1", func() {
			w := get(r, "/patients/1/detail")
			body := w.Body.String()

			Convey("Then only the detail component is returned and the selection moves", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldContainSubstring, `id="patient-container-name">Ryan Johnson<`)
				So(body, ShouldNotContainSubstring, "<html")
				So(body, ShouldNotContainSubstring, `id="patients-list-container"`)
				So(deps.selected, ShouldEqual, 1)
			})
		})
	})
}

func TestHandler_Chart(t *testing.T) {
	Convey("Given a loaded collection", t, func() {
		r := newRouter(&fakeDeps{patients: patients()})

		Convey("When requesting a chart document twice", func() {
			a := get(r, "/patients/0/chart")
			b := get(r, "/patients/0/chart")

			Convey("Then each response is a fresh chart document", func() {
				So(a.Code, ShouldEqual, http.StatusOK)
				So(a.Body.String(), ShouldContainSubstring, "Systolic")
				So(a.Body.String(), ShouldContainSubstring, "Diastolic")
				So(a.Body.String(), ShouldNotEqual, b.Body.String())
			})
		})

		Convey("When requesting a chart past the end", func() {
			So(get(r, "/patients/9/chart").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandler_Static(t *testing.T) {
	Convey("Given the embedded assets", t, func() {
		r := newRouter(&fakeDeps{})

		for _, path := range []string{"/static/css/dashboard.css", "/static/img/ArrowUp.svg", "/static/img/ArrowDown.svg", "/static/js/dashboard.js"} {
			w := get(r, path)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.Len(), ShouldBeGreaterThan, 0)
		}
		So(get(r, "/static/missing.css").Code, ShouldEqual, http.StatusNotFound)
	})
}

func TestRenderer_Standalone(t *testing.T) {
	Convey("Given a renderer", t, func() {
		rd, err := site.NewRenderer(site.WithTitle("Snapshot"))
		So(err, ShouldBeNil)

		Convey("When writing a standalone page", func() {
			var buf bytes.Buffer
			page := dashboard.BuildPage(patients(), 0, dashboard.DefaultChartConfig())
			err := rd.Standalone(&buf, page)

			Convey("Then styles and chart are embedded", func() {
				So(err, ShouldBeNil)
				out := buf.String()
				So(out, ShouldContainSubstring, "<title>Snapshot</title>")
				So(out, ShouldContainSubstring, "<style>")
				So(out, ShouldContainSubstring, "srcdoc=")
				So(out, ShouldNotContainSubstring, `src="/patients/0/chart"`)
				So(out, ShouldNotContainSubstring, "dashboard.js")
			})
		})
	})

	Convey("Given a nil router", t, func() {
		h, err := site.NewHandler(&fakeDeps{})
		So(err, ShouldBeNil)
		So(func() { h.Register(context.Background(), nil) }, ShouldPanic)
	})
}
