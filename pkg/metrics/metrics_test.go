package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "flightgate")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("proxy"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "proxy")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
			})
		})

		Convey("When registering the same metrics twice on one registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording upstream calls", func() {
			before := value(globalManager.upstreamCalls.WithLabelValues("one_way", OutcomeSuccess))
			RecordUpstreamCall("one_way", OutcomeSuccess, 42)

			Convey("Then the counter advances by one", func() {
				after := value(globalManager.upstreamCalls.WithLabelValues("one_way", OutcomeSuccess))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When tracking in-flight calls", func() {
			done := UpstreamStarted()
			So(value(globalManager.upstreamInFlight), ShouldEqual, 1)
			done()
			So(value(globalManager.upstreamInFlight), ShouldEqual, 0)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("flights_one_way", "GET", "200")
				RecordHTTPRequestDuration("flights_one_way", "GET", "200", 12)
				RecordErrorByEndpoint("flights_round_trip", "upstream_failure")
				RecordUpstreamStatus(503)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)

			Convey("Then the families are gathered from the custom registry", func() {
				names, err := Families()
				So(err, ShouldBeNil)
				So(names, ShouldContain, "flightgate_gateway_http_requests_total")
				So(names, ShouldContain, "flightgate_gateway_upstream_status_total")
				So(names, ShouldContain, "flightgate_gateway_system_goroutine_count")
			})
		})
	})
}

// value reads the current value of a counter or gauge.
func value(c prometheus.Metric) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		panic(err)
	}
	if m.Counter != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}
