package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered under the namespace", func() {
				m.RecordMatch(45, "good")
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_matches_generated_total"], ShouldBeTrue)
				So(names["test_unit_match_tier_total"], ShouldBeTrue)
			})
		})
	})
}

// sumOf gathers registry and sums counter values and histogram sample counts of name.
func sumOf(registry *prometheus.Registry, name string) float64 {
	families, err := registry.Gather()
	if err != nil {
		return -1
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if h := metric.GetHistogram(); h != nil {
				total += float64(h.GetSampleCount())
			}
		}
	}
	return total
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording builds and matches", func() {
			m.RecordBuild(5, 2, 1.5)
			m.RecordMatch(85, "perfect")
			m.RecordMatch(30, "potential")
			m.RecordMatch(90, "perfect")

			Convey("Then counters reflect the calls", func() {
				So(sumOf(registry, "skillswap_matching_candidates_scored_total"), ShouldEqual, 5)
				So(sumOf(registry, "skillswap_matching_candidates_skipped_total"), ShouldEqual, 2)
				So(sumOf(registry, "skillswap_matching_matches_generated_total"), ShouldEqual, 3)
				So(sumOf(registry, "skillswap_matching_match_tier_total"), ShouldEqual, 3)
				So(sumOf(registry, "skillswap_matching_match_score"), ShouldEqual, 3)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Package-level recorders do not panic", t, func() {
		So(func() {
			RecordBuild(1, 0, 0.2)
			RecordMatch(10, "potential")
			UpdateProfilesTotal(3)
			RecordRepositoryOperation("memory", "save_match", 0.1, false)
			RecordRepositoryOperation("memory", "load_profile", 0.1, true)
			UpdateQueueSize(1)
			UpdateQueueCapacity(10)
			RecordQueueEnqueue()
			RecordQueueDequeue()
			RecordQueueRejected("full")
			RecordQueueDeduplicated()
			UpdateWorkerActiveCount(2)
			RecordWorkerProcessingLatency(3)
			RecordWorkerError()
			RecordHTTPRequest("/score", "POST", "200")
			RecordHTTPRequestDuration("/score", "POST", "200", 0.01)
			RecordRateLimited("/matches/generate")
			RecordErrorByComponent("service", "generate")
		}, ShouldNotPanic)
	})

	Convey("GetRegistry exposes the global collectors", t, func() {
		RecordQueueEnqueue()
		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)
		So(len(families), ShouldBeGreaterThan, 0)
	})
}
