package report_test

import (
	"errors"
	"testing"

	"github.com/okian/promosim/internal/domain/aggregate"
	"github.com/okian/promosim/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func records(values ...float64) []aggregate.Record {
	names := []string{"SE", "TL", "PL", "部長", "役員"}
	out := make([]aggregate.Record, len(values))
	for i, v := range values {
		out[i] = aggregate.Record{Layer: names[i], RequiredSkillAverage: v, TotalScoreAverage: v * 5}
	}
	return out
}

func TestCompare(t *testing.T) {
	Convey("Given two five-layer record sequences", t, func() {
		random := records(100.5, 98.25, 101, 99.75, 100)
		skill := records(160.1, 150.2, 140.3, 130.4, 120.5)

		Convey("When comparing", func() {
			cmp, err := report.Compare(random, skill)
			So(err, ShouldBeNil)

			Convey("Then each sequence should be summed independently", func() {
				So(cmp.GrandTotals.Baseline, ShouldEqual, 499.5)
				So(cmp.GrandTotals.Candidate, ShouldEqual, 701.5)
				So(cmp.GrandTotals.Winner(), ShouldEqual, "candidate")
			})

			Convey("Then rows should carry both sides per layer", func() {
				So(len(cmp.Rows), ShouldEqual, 5)
				So(cmp.Rows[1].Layer, ShouldEqual, "TL")
				So(cmp.Rows[1].Baseline.RequiredSkillAverage, ShouldEqual, 98.25)
				So(cmp.Rows[1].Baseline.TotalScoreAverage, ShouldEqual, 491.25)
				So(cmp.Rows[1].Candidate.RequiredSkillAverage, ShouldEqual, 150.2)
			})
		})

		Convey("When the arguments are swapped", func() {
			cmp, err := report.Compare(skill, random)
			So(err, ShouldBeNil)

			Convey("Then the totals should swap too", func() {
				So(cmp.GrandTotals.Baseline, ShouldEqual, 701.5)
				So(cmp.GrandTotals.Candidate, ShouldEqual, 499.5)
				So(cmp.GrandTotals.Winner(), ShouldEqual, "baseline")
			})
		})

		Convey("When both sides are identical", func() {
			cmp, err := report.Compare(random, random)
			So(err, ShouldBeNil)
			So(cmp.GrandTotals.Winner(), ShouldEqual, "tie")
		})
	})

	Convey("Given sequences that do not line up", t, func() {
		Convey("When lengths differ", func() {
			_, err := report.Compare(records(1, 2), records(1))
			So(errors.Is(err, report.ErrMismatchedRecords), ShouldBeTrue)
		})

		Convey("When layer order differs", func() {
			a := records(1, 2)
			b := []aggregate.Record{a[1], a[0]}
			_, err := report.Compare(a, b)
			So(errors.Is(err, report.ErrMismatchedRecords), ShouldBeTrue)
		})

		Convey("When both are empty", func() {
			cmp, err := report.Compare(nil, nil)
			So(err, ShouldBeNil)
			So(len(cmp.Rows), ShouldEqual, 0)
			So(cmp.GrandTotals.Baseline, ShouldEqual, 0.0)
		})
	})
}
