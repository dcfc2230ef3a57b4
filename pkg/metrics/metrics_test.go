package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a dedicated registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test-namespace")
				So(manager.subsystem, ShouldEqual, "test-subsystem")
			})
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			RecordAlertEmitted("MULTIPLE_FACES")
			RecordAlertSuppressed("CANDIDATE_ABSENT")
			RecordTickProcessed()
			RecordTickSkipped("provider_not_ready")
			RecordTickDuration(12.5)
			RecordSinkAppend()
			RecordSinkAppendError()
			RecordSinkAppendLatency(1.5)
			RecordReportComputed()
			RecordReportError()
			RecordReportExported("pdf")
			UpdateActiveSessions(3)
			UpdateAlertSubscribers(2)
			RecordHTTPRequest("report", "GET", "200")
			RecordHTTPRequestDuration("report", "GET", "200", 4.2)

			Convey("Then the registry gathers without error", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
