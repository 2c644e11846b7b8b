package normalize

import (
	"strings"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// conditionKeywords maps free-text condition fragments onto the ordinal
// enum. Order matters: more specific phrases must precede their
// substrings ("like new" before "new", "sehr gut" before "gut",
// "ungetragen" before "getragen").
var conditionKeywords = []struct {
	kw   string
	cond domain.Condition
}{
	{"ungetragen", domain.ConditionUnworn},
	{"unworn", domain.ConditionUnworn},
	{"neuwertig", domain.ConditionExcellent},
	{"like new", domain.ConditionExcellent},
	{"mint", domain.ConditionExcellent},
	{"pristine", domain.ConditionExcellent},
	{"excellent", domain.ConditionExcellent},
	{"hervorragend", domain.ConditionExcellent},
	{"neu", domain.ConditionUnworn},
	{"new", domain.ConditionUnworn},
	{"certified pre-owned", domain.ConditionVeryGood},
	{"aufgearbeitet", domain.ConditionVeryGood},
	{"sehr gut", domain.ConditionVeryGood},
	{"very good", domain.ConditionVeryGood},
	{"gebraucht", domain.ConditionGood},
	{"gut", domain.ConditionGood},
	{"good", domain.ConditionGood},
	{"fair", domain.ConditionFair},
	{"getragen", domain.ConditionFair},
	{"worn", domain.ConditionFair},
	{"tragespuren", domain.ConditionFair},
}

// Condition maps a raw condition string onto the ordinal enum by keyword
// lookup in German and English. Unmatched text is Unknown, never an error.
func Condition(raw string) domain.Condition {
	text := strings.ToLower(CleanText(raw))
	if text == "" {
		return domain.ConditionUnknown
	}

	for _, entry := range conditionKeywords {
		if strings.Contains(text, entry.kw) {
			return entry.cond
		}
	}
	return domain.ConditionUnknown
}
