package intel

// EntityType identifies the kind of intelligence artifact extracted
// from a conversation.
type EntityType string

const (
	EntityPhone           EntityType = "phone"
	EntityEmail           EntityType = "email"
	EntityBankAccount     EntityType = "bank_account"
	EntityUPIID           EntityType = "upi_id"
	EntityCryptoAddress   EntityType = "crypto_address"
	EntityURL             EntityType = "url"
	EntityPersonName      EntityType = "person_name"
	EntityOrgName         EntityType = "org_name"
	EntityOtherIdentifier EntityType = "other_identifier"
)

// KnownEntityTypes lists every entity type the extractors can produce.
var KnownEntityTypes = []EntityType{
	EntityPhone,
	EntityEmail,
	EntityBankAccount,
	EntityUPIID,
	EntityCryptoAddress,
	EntityURL,
	EntityPersonName,
	EntityOrgName,
	EntityOtherIdentifier,
}

// ParseEntityType returns the EntityType for a config string.
func ParseEntityType(s string) (EntityType, bool) {
	for _, t := range KnownEntityTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Entity is a single deduplicated intelligence artifact.
// Value holds the normalized form; FirstSeenTurn is set once and immutable.
type Entity struct {
	Type          EntityType `json:"type"`
	Value         string     `json:"value"`
	FirstSeenTurn int        `json:"first_seen_turn"`
	Confidence    float64    `json:"confidence"`
}
