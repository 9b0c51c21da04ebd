package review

import (
	"regexp"
	"strings"

	"github.com/example/elevate/pkg/models"
)

// optionPattern matches one enumerated option line: a letter or digit
// followed by ")" or ".", or wrapped in parentheses, e.g. "a) ...", "1. ...",
// "(b) ...". The capture group is the option text without the enumerator.
var optionPattern = regexp.MustCompile(`^\s*(?:\([A-Za-z0-9]\)|[A-Za-z0-9][.)])\s*(\S.*)$`)

// classify derives the presentation type for a question. It runs once when
// the session loads; the result never changes afterwards. Rules are checked
// in order: true/false, multiple choice, then short answer as the fallback.
func classify(q models.Question) models.ReviewQuestion {
	rq := models.ReviewQuestion{Question: q, Type: models.ShortAnswer}

	lowerText := strings.ToLower(q.Text)
	lowerAnswer := strings.ToLower(strings.TrimSpace(q.Answer))
	if strings.Contains(lowerText, "true or false") || strings.Contains(lowerText, "true/false") {
		if lowerAnswer == "true" || lowerAnswer == "false" {
			rq.Type = models.TrueFalse
			return rq
		}
	}

	var options []string
	for _, line := range strings.Split(q.Text, "\n") {
		if m := optionPattern.FindStringSubmatch(line); m != nil {
			options = append(options, strings.TrimSpace(m[1]))
		}
	}
	if len(options) >= 2 {
		rq.Type = models.MultipleChoice
		rq.Options = options
	}

	return rq
}
