package rating_test

import (
	"testing"

	"go-perf/internal/rating"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCompute_AllSourcesPresent(t *testing.T) {
	t.Run("all fives", func(t *testing.T) {
		got := rating.Compute(rating.Inputs{
			SelfAssessment:  dec("5"),
			FeedbackAverage: dec("5"),
			L3Manager:       dec("5"),
			KRAAchievement:  dec("5"),
		})
		assert.Equal(t, "5", got.String())
	})

	t.Run("all threes", func(t *testing.T) {
		got := rating.Compute(rating.Inputs{
			SelfAssessment:  dec("3"),
			FeedbackAverage: dec("3"),
			L3Manager:       dec("3"),
			KRAAchievement:  dec("3"),
		})
		assert.Equal(t, "3", got.String())
	})

	t.Run("mixed scores round to one decimal", func(t *testing.T) {
		// 0.4*4 + 0.3*4.25 + 0.2*5 + 0.1*2 = 4.075 -> 4.1
		got := rating.Compute(rating.Inputs{
			SelfAssessment:  dec("4"),
			FeedbackAverage: dec("4.25"),
			L3Manager:       dec("5"),
			KRAAchievement:  dec("2"),
		})
		assert.Equal(t, "4.1", got.String())
	})
}

func TestCompute_MissingSourcesUseNeutralDefault(t *testing.T) {
	t.Run("missing feedback and kra", func(t *testing.T) {
		// 0.4*4 + 0.3*3 + 0.2*3 + 0.1*3 = 3.4
		got := rating.Compute(rating.Inputs{
			SelfAssessment: dec("4"),
			L3Manager:      dec("3"),
		})
		assert.Equal(t, "3.4", got.String())
	})

	t.Run("nothing available collapses to the default", func(t *testing.T) {
		got := rating.Compute(rating.Inputs{})
		assert.Equal(t, "3", got.String())
	})
}

func TestCompute_IsDeterministic(t *testing.T) {
	in := rating.Inputs{
		SelfAssessment:  dec("2"),
		FeedbackAverage: dec("4.5"),
		L3Manager:       dec("4"),
		KRAAchievement:  dec("1"),
	}
	first := rating.Compute(in)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(rating.Compute(in)))
	}
}
