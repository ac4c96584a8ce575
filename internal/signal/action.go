package signal

import (
	"regexp"
	"strings"

	"github.com/decoynet/decoy/internal/domain"
)

// Requested-action classification. Each class scores independently so the
// risk scorer can weight a credential request harder than a generic
// payment mention.
var (
	credentialPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(otp|pin|password|cvv|passcode)\b`),
		regexp.MustCompile(`\b(card number|debit card|credit card)\b`),
		regexp.MustCompile(`\bupi pin\b`),
	}
	paymentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(₹|rs\.?|inr)\s?\d+`),
		regexp.MustCompile(`\bpay\s+\d+`),
		regexp.MustCompile(`\d+\s*rupees`),
		regexp.MustCompile(`\b(send|transfer|deposit)\b.{0,30}\b(money|amount|funds|payment)\b`),
		regexp.MustCompile(`\bprocessing fee\b`),
	}
	personalDataPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(account number|bank account)\b`),
		regexp.MustCompile(`\b(aadhaar|pan card|ssn|date of birth)\b`),
		regexp.MustCompile(`\b(verify|confirm|update)\b.{0,30}\b(detail|details|information)\b`),
		regexp.MustCompile(`\bupi id\b`),
	}
)

// ActionExtractor classifies what the counterpart is asking the victim to
// hand over or do.
type ActionExtractor struct{}

// NewActionExtractor returns a requested-action extractor.
func NewActionExtractor() *ActionExtractor { return &ActionExtractor{} }

func (e *ActionExtractor) Name() string { return "action" }

func (e *ActionExtractor) Extract(message string, history []domain.Turn) Fragment {
	scores := map[string]float64{
		"request_credential": 0,
		"request_payment":    0,
		"request_personal":   0,
	}
	if strings.TrimSpace(message) == "" {
		return Fragment{Scores: scores}
	}

	lower := strings.ToLower(message)
	if matchesAny(lower, credentialPatterns) {
		scores["request_credential"] = 1.0
	}
	if matchesAny(lower, paymentPatterns) {
		scores["request_payment"] = 1.0
	}
	if matchesAny(lower, personalDataPatterns) {
		scores["request_personal"] = 1.0
	}

	return Fragment{Scores: scores}
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
