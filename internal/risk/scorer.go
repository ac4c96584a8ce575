// Package risk combines per-turn signal scores into a scam-confidence
// value and a discrete risk tier.
package risk

import (
	"sort"
	"strings"

	"github.com/decoynet/decoy/internal/domain"
	"github.com/decoynet/decoy/internal/signal"
)

// defaultWeights balances the signal layers. Credential requests weigh
// heaviest: a message asking for an OTP is rarely innocent.
var defaultWeights = map[string]float64{
	"keyword_match":           0.35,
	"keyword_history":         0.10,
	"urgency":                 0.15,
	"threat":                  0.20,
	"request_credential":      0.30,
	"request_payment":         0.20,
	"request_personal":        0.15,
	"contains_link":           0.15,
	"contains_phone":          0.10,
	"contains_payment_handle": 0.15,
}

// Scorer maps merged signal bundles to confidence and tier. Aggregation is
// a weighted sum over sorted signal names, so identical transcripts always
// produce identical tiers.
type Scorer struct {
	weights map[string]float64
	bands   [3]float64
}

// NewScorer creates a scorer with the given tier cut points
// (suspicious, likely_scam, confirmed_scam). Bands must be increasing.
func NewScorer(bands [3]float64) *Scorer {
	return &Scorer{weights: defaultWeights, bands: bands}
}

// Score produces the new confidence and tier for a turn. The returned tier
// is max(prior, tier-from-score): risk never decreases within a session.
func (s *Scorer) Score(bundle signal.Bundle, prior domain.RiskTier) (float64, domain.RiskTier) {
	names := make([]string, 0, len(bundle))
	for name := range bundle {
		names = append(names, name)
	}
	sort.Strings(names)

	var confidence float64
	for _, name := range names {
		confidence += bundle[name] * s.weights[name]
	}
	if confidence > 1 {
		confidence = 1
	}

	return confidence, domain.MaxTier(prior, s.tierFor(confidence))
}

func (s *Scorer) tierFor(confidence float64) domain.RiskTier {
	switch {
	case confidence >= s.bands[2]:
		return domain.TierConfirmedScam
	case confidence >= s.bands[1]:
		return domain.TierLikelyScam
	case confidence >= s.bands[0]:
		return domain.TierSuspicious
	default:
		return domain.TierBenign
	}
}

// ClassifyScamType labels the fraud pattern from message content and the
// merged bundle. First match wins; the order encodes specificity.
func ClassifyScamType(message string, bundle signal.Bundle) domain.ScamType {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "otp") || strings.Contains(lower, "pin"):
		return domain.ScamOTPTheft
	case strings.Contains(lower, "upi"):
		return domain.ScamUPIFraud
	case strings.Contains(lower, "kyc") || strings.Contains(lower, "verify"):
		return domain.ScamKYC
	case strings.Contains(lower, "prize") || strings.Contains(lower, "winner") || strings.Contains(lower, "lottery"):
		return domain.ScamPrize
	case strings.Contains(lower, "bank") || strings.Contains(lower, "account"):
		return domain.ScamBankFraud
	case bundle["contains_link"] > 0:
		return domain.ScamPhishing
	default:
		return domain.ScamGeneric
	}
}
