package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithHistogramBuckets([]float64{1, 10}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its metrics are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.postsCreated.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_posts_created_total")
			})
		})
	})
}

func TestRecordHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording translations", func() {
			before := testutil.ToFloat64(globalManager.translations.WithLabelValues("noop", "error"))
			RecordTranslation("noop", errors.New("down"), 3)
			RecordTranslation("noop", nil, 2)

			Convey("Then the outcome label separates failures", func() {
				So(testutil.ToFloat64(globalManager.translations.WithLabelValues("noop", "error")), ShouldEqual, before+1)
			})
		})

		Convey("When recording feed pages", func() {
			before := testutil.ToFloat64(globalManager.feedPages.WithLabelValues("teams"))
			RecordFeedPage("teams", 5)

			Convey("Then the counter moves", func() {
				So(testutil.ToFloat64(globalManager.feedPages.WithLabelValues("teams")), ShouldEqual, before+1)
			})
		})

		Convey("When recording posts and highlights", func() {
			posts := testutil.ToFloat64(globalManager.postsCreated)
			clips := testutil.ToFloat64(globalManager.highlightsStored)
			RecordPostCreated()
			RecordHighlightsStored(3)

			Convey("Then both counters move", func() {
				So(testutil.ToFloat64(globalManager.postsCreated), ShouldEqual, posts+1)
				So(testutil.ToFloat64(globalManager.highlightsStored), ShouldEqual, clips+3)
			})
		})

		Convey("Then the registry can be gathered", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
