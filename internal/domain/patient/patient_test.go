package patient_test

import (
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/okian/pulse/internal/domain/patient"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPatientPayload(t *testing.T) {
	Convey("Given the API payload fixture", t, func() {
		raw, err := os.ReadFile("testdata/patients.json")
		So(err, ShouldBeNil)

		var patients []patient.Patient
		So(json.Unmarshal(raw, &patients), ShouldBeNil)

		Convey("Then every patient is decoded in order", func() {
			So(patients, ShouldHaveLength, 3)
			So(patients[0].Name, ShouldEqual, "Emily Williams")
			So(patients[1].Name, ShouldEqual, "Ryan Johnson")
			So(patients[2].Name, ShouldEqual, "Jessica Taylor")
		})

		Convey("Then nested vitals keep their values and levels", func() {
			h := patients[0].DiagnosisHistory[0]
			So(h.Month, ShouldEqual, "March")
			So(h.Year, ShouldEqual, 2024)
			So(h.BloodPressure.Systolic.Value, ShouldEqual, 160)
			So(h.BloodPressure.Systolic.Levels, ShouldEqual, patient.LevelHigherThanAverage)
			So(h.BloodPressure.Diastolic.Levels, ShouldEqual, patient.LevelLowerThanAverage)
			So(h.Temperature.Value, ShouldEqual, 98.6)
		})

		Convey("Then scalar profile fields are populated", func() {
			p := patients[0]
			So(p.DateOfBirth, ShouldEqual, "2006-08-19")
			So(p.InsuranceType, ShouldEqual, "Premier Auto Corporation")
			So(p.DiagnosticList, ShouldHaveLength, 2)
			So(p.LabResults, ShouldResemble, []string{"Blood Tests", "CT Scans", "Radiology Reports"})
		})
	})
}
