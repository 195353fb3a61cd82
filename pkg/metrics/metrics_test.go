package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// counterValue sums every series of the named family in the registry.
func counterValue(g prometheus.Gatherer, name string) float64 {
	families, err := g.Gather()
	if err != nil {
		return -1
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors are registered under the reefscout namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.recordsReceived.WithLabelValues("live").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "reefscout_records_received_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("scout"),
				WithSubsystem("test"),
				WithMetricPrefix("pfx"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names carry namespace, subsystem and prefix", func() {
				So(manager.refreshInterval, ShouldEqual, 5*time.Second)
				manager.queueEnqueued.Inc()
				So(counterValue(registry, "scout_test_pfx_queue_enqueued_total"), ShouldEqual, 1)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "scout_test_pfx_queue_enqueued_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording ingest metrics", func() {
			before := counterValue(customRegistry, "reefscout_records_stored_total")
			RecordRecordReceived("prescout")
			RecordRecordDuplicate("prescout")
			RecordRecordsStored("prescout", 3)
			RecordIngestError("normalize")

			Convey("Then the stored counter advances by the batch size", func() {
				So(counterValue(customRegistry, "reefscout_records_stored_total")-before, ShouldEqual, 3)
			})
		})

		Convey("When recording the remaining families", func() {
			So(func() {
				UpdateDedupeSize(10)
				UpdateQueueSize(4)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.04)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				UpdateWorkerCount(4)
				UpdateWorkerMessagesPerSecond(12.5)
				RecordWorkerProcessingLatency(1.5)
				RecordWorkerError()
				RecordStoreLatency("json", "list", 0.4)
				UpdateStoredRecords("live", 120)
				RecordEngineComputation("rankings", time.Now())
				RecordTeamsAggregated(36)
				RecordTBARequest("match", 200, 85)
				RecordTBARequest("event_matches", 0, 3)
				RecordImportRows("live", 40)
				RecordImportUnknownHeaders(2)
				RecordHTTPRequest("rankings", "GET", "200")
				RecordHTTPRequestDuration("rankings", "GET", "200", 3)
				RecordErrorByComponent("tba", "upstream")
				RecordErrorByType("server_error", "high")
				RecordErrorByEndpoint("projection", "GET", "not_found")
				RecordErrorLatency("http", "client_error", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When recording is disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := counterValue(customRegistry, "reefscout_queue_enqueued_total")
			RecordQueueEnqueue()

			Convey("Then counters do not move", func() {
				So(Enabled(), ShouldBeFalse)
				So(counterValue(customRegistry, "reefscout_queue_enqueued_total"), ShouldEqual, before)
			})
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}
