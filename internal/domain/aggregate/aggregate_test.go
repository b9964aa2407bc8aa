package aggregate_test

import (
	"testing"

	"github.com/okian/promosim/internal/domain/aggregate"
	"github.com/okian/promosim/internal/domain/model"
	"github.com/okian/promosim/internal/domain/promotion"
	"github.com/okian/promosim/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func person(id int, scores map[schema.Skill]int) model.Individual {
	var s model.SkillScores
	for k, v := range scores {
		s[k] = v
	}
	return model.Individual{ID: id, Name: model.DisplayName(id), Scores: s}
}

func TestSummarize(t *testing.T) {
	Convey("Given the three-person tie scenario", t, func() {
		pop := model.Population{
			person(0, map[schema.Skill]int{schema.Programming: 90, schema.IQ: 10}),
			person(1, map[schema.Skill]int{schema.Programming: 50, schema.IQ: 50}),
			person(2, map[schema.Skill]int{schema.Programming: 10, schema.IQ: 90}),
		}
		layers := []schema.Layer{{Name: "SE", Capacity: 2, RequiredSkills: []schema.Skill{schema.Programming, schema.IQ}}}

		Convey("When summarizing the flat assignment", func() {
			recs := aggregate.Summarize(promotion.Flat{}.Assign(pop, layers), layers)

			Convey("Then the required-skill average should be 100", func() {
				So(len(recs), ShouldEqual, 1)
				So(recs[0].Layer, ShouldEqual, "SE")
				So(recs[0].Members, ShouldEqual, 2)
				So(recs[0].RequiredSkillAverage, ShouldEqual, 100.0)
				So(recs[0].TotalScoreAverage, ShouldEqual, 100.0)
			})
		})
	})

	Convey("Given members whose averages need rounding", t, func() {
		layers := []schema.Layer{
			{Name: "top", Capacity: 3, RequiredSkills: []schema.Skill{schema.Strategy}},
			{Name: "empty", Capacity: 2, RequiredSkills: []schema.Skill{schema.Finance}},
		}
		a := model.Assignment{
			{Layer: "top", Members: []model.Individual{
				person(0, map[schema.Skill]int{schema.Strategy: 10, schema.Finance: 1}),
				person(1, map[schema.Skill]int{schema.Strategy: 10}),
				person(2, map[schema.Skill]int{schema.Strategy: 11}),
			}},
		}

		Convey("When summarizing", func() {
			recs := aggregate.Summarize(a, layers)

			Convey("Then averages should be rounded to two decimals", func() {
				So(recs[0].RequiredSkillAverage, ShouldEqual, 10.33)
				So(recs[0].TotalScoreAverage, ShouldEqual, 10.67)
			})

			Convey("Then an absent layer should average to zero", func() {
				So(recs[1].Layer, ShouldEqual, "empty")
				So(recs[1].Members, ShouldEqual, 0)
				So(recs[1].RequiredSkillAverage, ShouldEqual, 0.0)
				So(recs[1].TotalScoreAverage, ShouldEqual, 0.0)
			})

			Convey("Then summarizing again should give the same records", func() {
				So(aggregate.Summarize(a, layers), ShouldResemble, recs)
			})
		})
	})

	Convey("Given an explicitly empty layer", t, func() {
		layers := []schema.Layer{{Name: "x", Capacity: 1, RequiredSkills: []schema.Skill{schema.IQ}}}
		recs := aggregate.Summarize(model.Assignment{{Layer: "x"}}, layers)

		Convey("Then both averages should be zero", func() {
			So(recs[0].RequiredSkillAverage, ShouldEqual, 0.0)
			So(recs[0].TotalScoreAverage, ShouldEqual, 0.0)
		})
	})

	Convey("Given values to round", t, func() {
		So(aggregate.Round2(1.005), ShouldAlmostEqual, 1.0, 0.011)
		So(aggregate.Round2(2.345678), ShouldEqual, 2.35)
		So(aggregate.Round2(0), ShouldEqual, 0.0)
	})
}
