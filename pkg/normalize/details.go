package normalize

import (
	"regexp"
	"strconv"
	"strings"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// yearRe accepts production years from 1940 through 2029.
var yearRe = regexp.MustCompile(`(19[4-9]\d|20[0-2]\d)`)

// refPrefixRe strips the label prefixes sources put before reference
// numbers ("Ref. 16610", "Reference: 5711/1A").
var refPrefixRe = regexp.MustCompile(`(?i)^(ref\.?|reference)\s*:?\s*`)

// Year scans the given texts in order and returns the first plausible
// four-digit year, or nil when none appears.
func Year(texts ...string) *int {
	for _, t := range texts {
		if m := yearRe.FindString(t); m != "" {
			y, err := strconv.Atoi(m)
			if err != nil {
				continue
			}
			return &y
		}
	}
	return nil
}

// Reference cleans a raw reference string: entity decoding, whitespace
// collapse, label prefix removal. Empty in, empty out.
func Reference(raw string) string {
	return refPrefixRe.ReplaceAllString(CleanText(raw), "")
}

// Negation phrases checked before the positive keywords so "ohne Box"
// does not read as box present.
var (
	noBoxPhrases = []string{"ohne box", "keine box", "no box"}
	boxPhrases   = []string{"mit box", "with box", "originalbox", "original box", "full set", "fullset", "box"}

	noPapersPhrases = []string{"ohne papiere", "keine papiere", "no papers", "no certificate"}
	papersPhrases   = []string{"mit papiere", "with papers", "certificate", "zertifikat", "garantie", "warranty", "full set", "fullset", "papier"}
)

// BoxPapers scans free text (scope-of-delivery cells, descriptions) for
// box and papers mentions and returns both as tri-state values.
func BoxPapers(text string) (box, papers domain.TriState) {
	t := strings.ToLower(CleanText(text))
	if t == "" {
		return domain.TriUnknown, domain.TriUnknown
	}
	return scanTriState(t, noBoxPhrases, boxPhrases),
		scanTriState(t, noPapersPhrases, papersPhrases)
}

func scanTriState(text string, negative, positive []string) domain.TriState {
	for _, p := range negative {
		if strings.Contains(text, p) {
			return domain.TriNo
		}
	}
	for _, p := range positive {
		if strings.Contains(text, p) {
			return domain.TriYes
		}
	}
	return domain.TriUnknown
}
