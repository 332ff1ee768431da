package render

import (
	"strings"

	qerrors "mercator-hq/huntquery/pkg/query/errors"
)

// StageSeparator prefixes every stage after the source stage.
const StageSeparator = "| "

// Stage is one pipe-delimited segment of a query. Text may span several
// lines; continuation lines carry their own indentation.
type Stage struct {
	Text     string
	Included bool
}

// Always returns a stage that is always emitted.
func Always(text string) Stage {
	return Stage{Text: text, Included: true}
}

// When returns a stage emitted only when cond is true.
func When(cond bool, text string) Stage {
	return Stage{Text: text, Included: cond}
}

// Join renders the included stages. Excluded stages contribute nothing, not
// even their separator.
func Join(stages ...Stage) (string, error) {
	var sb strings.Builder
	n := 0
	for i, s := range stages {
		if !s.Included {
			continue
		}
		if strings.TrimSpace(s.Text) == "" {
			return "", qerrors.InvalidParameter("stage", "stage %d has no text", i)
		}
		if strings.HasPrefix(s.Text, "|") {
			return "", qerrors.InvalidParameter("stage", "stage %d already starts with a separator", i)
		}
		if n > 0 {
			sb.WriteByte('\n')
			sb.WriteString(StageSeparator)
		}
		sb.WriteString(s.Text)
		n++
	}
	if n == 0 {
		return "", qerrors.InvalidParameter("stage", "query has no included stages")
	}
	return sb.String(), nil
}
