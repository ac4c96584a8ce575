package signal

import (
	"regexp"
	"strings"

	"github.com/decoynet/decoy/internal/domain"
)

var urgencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`within \d+ (hours?|minutes?|days?)`),
	regexp.MustCompile(`\bimmediately\b`),
	regexp.MustCompile(`\bright now\b`),
	regexp.MustCompile(`\basap\b`),
	regexp.MustCompile(`\burgent(ly)?\b`),
	regexp.MustCompile(`\btoday\b`),
	regexp.MustCompile(`\bexpir(e|es|ing|ed)\b`),
	regexp.MustCompile(`\blast chance\b`),
	regexp.MustCompile(`\bfinal (warning|notice|reminder)\b`),
	regexp.MustCompile(`\bdo not (delay|ignore)\b`),
}

// threat patterns escalate urgency into coercion.
var threatPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(account|card|service).{0,20}(blocked|suspended|deactivated|closed)\b`),
	regexp.MustCompile(`\b(legal action|police|arrest|penalty|fine)\b`),
	regexp.MustCompile(`\blose (your|all).{0,15}(money|funds|access)\b`),
}

// UrgencyExtractor scores pressure language: deadlines, immediacy and
// consequence threats.
type UrgencyExtractor struct{}

// NewUrgencyExtractor returns a pressure-language extractor.
func NewUrgencyExtractor() *UrgencyExtractor { return &UrgencyExtractor{} }

func (e *UrgencyExtractor) Name() string { return "urgency" }

func (e *UrgencyExtractor) Extract(message string, history []domain.Turn) Fragment {
	scores := map[string]float64{"urgency": 0, "threat": 0}
	if strings.TrimSpace(message) == "" {
		return Fragment{Scores: scores}
	}

	lower := strings.ToLower(message)

	hits := 0
	for _, re := range urgencyPatterns {
		if re.MatchString(lower) {
			hits++
		}
	}
	// One deadline phrase is mild pressure; several is a tactic.
	scores["urgency"] = clamp01(float64(hits) / 3.0)

	for _, re := range threatPatterns {
		if re.MatchString(lower) {
			scores["threat"] = 1.0
			break
		}
	}

	return Fragment{Scores: scores}
}
