package domain

import (
	"encoding/json"
	"fmt"
)

// RiskTier classifies how suspicious a session's traffic is.
// Tiers are ordered and never downgraded within a session: a counterpart
// that turns innocuous after raising risk does not regain trust.
type RiskTier int

const (
	TierBenign RiskTier = iota
	TierSuspicious
	TierLikelyScam
	TierConfirmedScam
)

var tierNames = map[RiskTier]string{
	TierBenign:        "benign",
	TierSuspicious:    "suspicious",
	TierLikelyScam:    "likely_scam",
	TierConfirmedScam: "confirmed_scam",
}

func (t RiskTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// MarshalJSON encodes the tier as its snake_case name.
func (t RiskTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a snake_case tier name.
func (t *RiskTier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for tier, name := range tierNames {
		if name == s {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown risk tier %q", s)
}

// MaxTier returns the higher of two tiers.
func MaxTier(a, b RiskTier) RiskTier {
	if a > b {
		return a
	}
	return b
}

// ScamType is a coarse classification of the fraud pattern observed.
type ScamType string

const (
	ScamUnknown   ScamType = "unknown"
	ScamBankFraud ScamType = "bank_account_fraud"
	ScamUPIFraud  ScamType = "upi_fraud"
	ScamOTPTheft  ScamType = "otp_pin_theft"
	ScamPrize     ScamType = "prize_lottery"
	ScamKYC       ScamType = "kyc_verification"
	ScamPhishing  ScamType = "phishing"
	ScamGeneric   ScamType = "generic_fraud"
)
