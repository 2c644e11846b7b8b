package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sfeuerstein/watch-monitor/pkg/normalize"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

func TestCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want domain.Condition
	}{
		// unworn
		{name: "neu", raw: "Neu", want: domain.ConditionUnworn},
		{name: "new", raw: "New", want: domain.ConditionUnworn},
		{name: "ungetragen", raw: "Ungetragen", want: domain.ConditionUnworn},
		{name: "unworn", raw: "unworn", want: domain.ConditionUnworn},
		// excellent beats the embedded "new"/"neu"
		{name: "neuwertig", raw: "Neuwertig", want: domain.ConditionExcellent},
		{name: "like new", raw: "Like New", want: domain.ConditionExcellent},
		{name: "mint", raw: "Mint condition", want: domain.ConditionExcellent},
		{name: "pristine", raw: "pristine example", want: domain.ConditionExcellent},
		{name: "excellent", raw: "Excellent", want: domain.ConditionExcellent},
		// very good beats the embedded "good"/"gut"
		{name: "sehr gut", raw: "Sehr gut", want: domain.ConditionVeryGood},
		{name: "very good", raw: "Very Good", want: domain.ConditionVeryGood},
		{name: "certified pre-owned", raw: "Certified Pre-Owned", want: domain.ConditionVeryGood},
		{name: "aufgearbeitet", raw: "Aufgearbeitet", want: domain.ConditionVeryGood},
		// good
		{name: "gut", raw: "Gut", want: domain.ConditionGood},
		{name: "good", raw: "good overall", want: domain.ConditionGood},
		{name: "gebraucht", raw: "Gebraucht", want: domain.ConditionGood},
		// fair
		{name: "fair", raw: "Fair", want: domain.ConditionFair},
		{name: "getragen", raw: "getragen", want: domain.ConditionFair},
		{name: "tragespuren", raw: "mit Tragespuren", want: domain.ConditionFair},
		// unknown
		{name: "unmapped text", raw: "original dial", want: domain.ConditionUnknown},
		{name: "empty", raw: "", want: domain.ConditionUnknown},
		{name: "whitespace", raw: "   ", want: domain.ConditionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalize.Condition(tt.raw))
		})
	}
}

func TestConditionRankOrdering(t *testing.T) {
	t.Parallel()

	order := []domain.Condition{
		domain.ConditionUnworn,
		domain.ConditionExcellent,
		domain.ConditionVeryGood,
		domain.ConditionGood,
		domain.ConditionFair,
		domain.ConditionUnknown,
	}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].Rank(), order[i].Rank(),
			"%s should rank better than %s", order[i-1], order[i])
	}
}
