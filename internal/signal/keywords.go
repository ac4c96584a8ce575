package signal

import (
	"strings"

	"github.com/decoynet/decoy/internal/domain"
)

// scamLexicon weights phrases commonly used in fraud messages. Weights are
// summed and normalized against keywordDivisor, matching the calibration of
// the detection policy these terms were tuned for.
var scamLexicon = map[string]float64{
	"urgent":          3.0,
	"verify":          2.5,
	"account blocked": 4.0,
	"suspended":       3.5,
	"immediate":       3.0,
	"click here":      2.5,
	"confirm":         2.0,
	"update":          2.0,
	"security":        2.0,
	"otp":             3.5,
	"upi":             2.5,
	"bank":            2.0,
	"payment":         2.0,
	"transfer":        2.5,
	"prize":           3.0,
	"winner":          3.0,
	"congratulations": 2.5,
	"lottery":         4.0,
	"refund":          2.5,
	"cashback":        2.5,
	"limited time":    3.0,
	"expire":          2.5,
	"last chance":     3.0,
	"act now":         3.0,
	"kyc":             4.0,
	"block":           3.5,
	"fraud":           3.0,
	"unauthorized":    3.0,
}

const keywordDivisor = 15.0

// KeywordExtractor scores lexical scam-pattern matches.
type KeywordExtractor struct{}

// NewKeywordExtractor returns a lexicon-based extractor.
func NewKeywordExtractor() *KeywordExtractor { return &KeywordExtractor{} }

func (e *KeywordExtractor) Name() string { return "keywords" }

// Extract sums lexicon weights over the lowercased message. Keywords seen
// in the current message score fully; a small history echo is added when
// earlier counterpart turns also matched, since persistent scam vocabulary
// across turns is itself a signal.
func (e *KeywordExtractor) Extract(message string, history []domain.Turn) Fragment {
	scores := map[string]float64{"keyword_match": 0, "keyword_history": 0}
	if strings.TrimSpace(message) == "" {
		return Fragment{Scores: scores}
	}

	lower := strings.ToLower(message)
	var sum float64
	for phrase, weight := range scamLexicon {
		if strings.Contains(lower, phrase) {
			sum += weight
		}
	}
	scores["keyword_match"] = clamp01(sum / keywordDivisor)

	var histSum float64
	for _, turn := range history {
		if turn.Sender == "user" {
			continue
		}
		turnLower := strings.ToLower(turn.Text)
		for phrase, weight := range scamLexicon {
			if strings.Contains(turnLower, phrase) {
				histSum += weight
			}
		}
	}
	scores["keyword_history"] = clamp01(histSum / (keywordDivisor * 4))

	return Fragment{Scores: scores}
}
