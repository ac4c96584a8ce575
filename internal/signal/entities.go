package signal

import (
	"regexp"
	"strings"

	"github.com/decoynet/decoy/internal/domain"
	"github.com/decoynet/decoy/internal/intel"
)

var (
	phoneRe   = regexp.MustCompile(`(\+91[\s-]?|0)?[6-9]\d{9}\b`)
	urlRe     = regexp.MustCompile(`https?://[a-zA-Z0-9$\-_@.&+!*(),%/?#=~;:]+`)
	addressRe = regexp.MustCompile(`[\w.\-]+@[\w.\-]+`)
	accountRe = regexp.MustCompile(`\b\d{9,18}\b`)
	ifscRe    = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)
	btcRe     = regexp.MustCompile(`\b(bc1[a-z0-9]{25,62}|[13][a-km-zA-HJ-NP-Z1-9]{25,34})\b`)
	ethRe     = regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`)
	orgRe     = regexp.MustCompile(`(?i)\b(SBI|HDFC|ICICI|Axis|Paytm|PhonePe|Google Pay|Amazon|Flipkart|RBI|Airtel|Jio)\b`)
	nameRe    = regexp.MustCompile(`\b(?i:my name is|this is|i am|i'm)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
)

// upiProviders distinguishes UPI handles from plain email addresses.
var upiProviders = []string{"paytm", "phonepe", "gpay", "upi", "ybl", "okhdfcbank", "oksbi", "okaxis", "okicici", "apl", "ibl"}

// EntityExtractor finds intelligence artifact candidates: phone numbers,
// payment handles, account numbers, links, crypto addresses and names.
// Values are raw matches; the ledger normalizes before dedup.
type EntityExtractor struct{}

// NewEntityExtractor returns an entity-candidate extractor.
func NewEntityExtractor() *EntityExtractor { return &EntityExtractor{} }

func (e *EntityExtractor) Name() string { return "entities" }

func (e *EntityExtractor) Extract(message string, history []domain.Turn) Fragment {
	scores := map[string]float64{"contains_link": 0, "contains_phone": 0, "contains_payment_handle": 0}
	if strings.TrimSpace(message) == "" {
		return Fragment{Scores: scores}
	}

	var entities []intel.Entity
	add := func(t intel.EntityType, value string, conf float64) {
		entities = append(entities, intel.Entity{Type: t, Value: value, Confidence: conf})
	}

	for _, m := range phoneRe.FindAllString(message, -1) {
		add(intel.EntityPhone, m, 0.9)
		scores["contains_phone"] = 1.0
	}

	urls := urlRe.FindAllString(message, -1)
	for _, m := range urls {
		add(intel.EntityURL, m, 0.95)
		scores["contains_link"] = 1.0
	}

	// user@host matches are UPI handles when the suffix is a known
	// provider, email addresses when they carry a dotted domain.
	for _, m := range addressRe.FindAllString(message, -1) {
		at := strings.LastIndex(m, "@")
		suffix := strings.ToLower(m[at+1:])
		if isUPIProvider(suffix) {
			add(intel.EntityUPIID, m, 0.9)
			scores["contains_payment_handle"] = 1.0
		} else if strings.Contains(suffix, ".") {
			add(intel.EntityEmail, m, 0.8)
		}
	}

	// Long digit runs are account-number candidates unless they already
	// matched as phone numbers.
	for _, m := range accountRe.FindAllString(message, -1) {
		if phoneRe.MatchString(m) {
			continue
		}
		add(intel.EntityBankAccount, m, 0.6)
	}
	for _, m := range ifscRe.FindAllString(message, -1) {
		add(intel.EntityBankAccount, m, 0.85)
	}

	for _, m := range btcRe.FindAllString(message, -1) {
		add(intel.EntityCryptoAddress, m, 0.7)
	}
	for _, m := range ethRe.FindAllString(message, -1) {
		add(intel.EntityCryptoAddress, m, 0.9)
	}

	for _, m := range orgRe.FindAllString(message, -1) {
		add(intel.EntityOrgName, m, 0.7)
	}
	for _, m := range nameRe.FindAllStringSubmatch(message, -1) {
		add(intel.EntityPersonName, m[1], 0.5)
	}

	return Fragment{Scores: scores, Entities: entities}
}

func isUPIProvider(suffix string) bool {
	for _, p := range upiProviders {
		if suffix == p || strings.HasPrefix(suffix, p+".") {
			return true
		}
	}
	return false
}
