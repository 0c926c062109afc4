package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then every metric is registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.updatesIngested.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, mf := range families {
					So(strings.HasPrefix(mf.GetName(), "test_unit_"), ShouldBeTrue)
				}
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics on duplicate collectors", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording business metrics", func() {
			before := testutil.ToFloat64(globalManager.updatesIngested)
			RecordUpdateIngested()
			RecordSubmission("accepted")
			RecordAnalysis("ratings", 12)
			RecordAnalysisError("stalls")
			UpdateMembersRanked(7)
			RecordStalledPeriods(2)
			RecordRepeatedKeywords(3)
			RecordNormalizeFailure("malformed_json")

			Convey("Then counters and gauges move", func() {
				So(testutil.ToFloat64(globalManager.updatesIngested), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.membersRanked), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.analysisErrors.WithLabelValues("stalls")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording operational metrics", func() {
			So(func() {
				RecordEmbeddingRequest("ok", 40)
				RecordEmbeddingCache("hit")
				RecordAnalyzerRequest("failed", 900)
				UpdateQueueSize(3)
				UpdateQueueCapacity(10)
				UpdateQueueUtilization(0.3)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError("queue_full")
				UpdateWorkerCount(4)
				RecordWorkerProcessingLatency(5)
				RecordWorkerError("analyze")
				RecordHTTPRequest("ratings", "GET", "200", 3)
				RecordHTTPError("ratings", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)

			So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 10)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
