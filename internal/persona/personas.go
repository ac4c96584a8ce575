// Package persona maps accumulated session evidence to the active victim
// character and response strategy.
package persona

import (
	"hash/fnv"

	"github.com/decoynet/decoy/internal/domain"
)

// Profile describes a victim character used to condition reply generation.
type Profile struct {
	ID     domain.PersonaID
	Style  string
	Sample string
	// Stalls are stock replies used when the generation backend is
	// unavailable, keyed off the turn count so repeated failures do not
	// repeat the same line.
	Stalls []string
}

var profiles = map[domain.PersonaID]Profile{
	domain.PersonaElderly: {
		ID:     domain.PersonaElderly,
		Style:  "confused, worried, asks for clarification, slow to understand technology",
		Sample: "Oh my! I am very worried. Can you please explain this to me slowly? I am not good with these mobile things.",
		Stalls: []string{
			"I am worried. Can you please explain more?",
			"Sorry beta, my phone is acting up. What was that again?",
			"Can you give me your phone number? I want to call and verify.",
			"My grandson usually helps me with this. Can you explain once more?",
		},
	},
	domain.PersonaEager: {
		ID:     domain.PersonaEager,
		Style:  "willing to help, asks questions, wants to solve the problem quickly",
		Sample: "Yes yes, I want to fix this immediately! What do I need to do? Please tell me step by step.",
		Stalls: []string{
			"What should I do? I don't want my account blocked!",
			"Yes I am trying! Can you send the details once more?",
			"Tell me the steps again please, I want to finish this today.",
			"Which number should I use? Please share it again.",
		},
	},
	domain.PersonaSkeptical: {
		ID:     domain.PersonaSkeptical,
		Style:  "cautious, asks for verification, wants proof",
		Sample: "Hmm, how do I know this is real? Can you give me your company details? My son told me to always verify.",
		Stalls: []string{
			"Is there a website I can check? My son told me to always verify.",
			"Can you share your employee ID and office number first?",
			"How do I know this is genuine? Send me something official.",
			"Which branch are you calling from? Give me the number there.",
		},
	},
	domain.PersonaTechnical: {
		ID:     domain.PersonaTechnical,
		Style:  "claims technical issues, asks for alternatives, needs help",
		Sample: "I am trying but getting error. Is there another way? Can you send me the link via SMS?",
		Stalls: []string{
			"I am getting an error. Is there another way?",
			"The page is not loading. Can you send the link again?",
			"My app crashed. Do you have an alternate number or UPI ID?",
			"It says invalid. Can you type out the account details again?",
		},
	},
}

// Get returns the profile for a persona id, falling back to the technical
// profile for unknown ids.
func Get(id domain.PersonaID) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return profiles[domain.PersonaTechnical]
}

// StallReply picks a stock fallback line for the persona, varied by turn.
func StallReply(id domain.PersonaID, turn int) string {
	p := Get(id)
	if len(p.Stalls) == 0 {
		return "I'm not sure I understand. Can you explain more?"
	}
	if turn < 0 {
		turn = 0
	}
	return p.Stalls[turn%len(p.Stalls)]
}

// initialFor assigns the opening persona. The scam type steers the choice
// the way a real victim pool would skew; the session id hash breaks ties
// deterministically so the same session always gets the same character.
func initialFor(sessionID string, scamType domain.ScamType) domain.PersonaID {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	pick := h.Sum32()

	switch scamType {
	case domain.ScamKYC, domain.ScamBankFraud, domain.ScamOTPTheft:
		if pick%2 == 0 {
			return domain.PersonaElderly
		}
		return domain.PersonaSkeptical
	case domain.ScamPrize:
		return domain.PersonaEager
	case domain.ScamUPIFraud, domain.ScamPhishing:
		return domain.PersonaTechnical
	default:
		order := []domain.PersonaID{
			domain.PersonaElderly, domain.PersonaEager,
			domain.PersonaSkeptical, domain.PersonaTechnical,
		}
		return order[pick%uint32(len(order))]
	}
}
