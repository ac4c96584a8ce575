package llm

import (
	"fmt"
	"strings"

	"github.com/decoynet/decoy/internal/domain"
	"github.com/decoynet/decoy/internal/persona"
)

const historyWindow = 6

// stageGoal describes what the reply should try to achieve at this point
// in the conversation. Stages progress with turn count; the strategy from
// the selector overrides the default arc when it is more specific.
func stageGoal(req Request) string {
	switch req.Strategy {
	case domain.StrategyDisengage:
		return "Start winding down: say you need to consult someone or will do it later, but still capture any final details offered"
	case domain.StrategyStall:
		return "Claim technical difficulties or ask for alternative methods. Extract payment details if offered"
	case domain.StrategyProbe:
		return "Show willingness to comply but ask for verification details (phone number, website, company name, etc.)"
	}

	switch {
	case req.TurnCount < 5:
		return "Express concern and ask clarifying questions to understand the situation better"
	case req.TurnCount < 12:
		return "Show willingness to comply but ask for verification details (phone number, website, company name, etc.)"
	case req.TurnCount < 20:
		return "Claim technical difficulties or ask for alternative methods. Extract payment details if offered"
	default:
		return "Start showing slight suspicion or say you need to consult someone, but still extract any final details"
	}
}

// BuildSystemPrompt renders the system prompt conditioning the backend on
// persona, strategy, collected intelligence and recent history.
func BuildSystemPrompt(req Request) string {
	p := persona.Get(req.Persona)

	var history strings.Builder
	turns := req.History
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}
	for _, turn := range turns {
		role := "Scammer"
		if turn.Sender == "user" {
			role = "You"
		}
		fmt.Fprintf(&history, "%s: %s\n", role, turn.Text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are pretending to be a %s victim of a scam. Your goal is to extract information from the scammer while appearing believable.\n\n", p.ID)
	fmt.Fprintf(&b, "PERSONA: %s\n", p.Style)
	fmt.Fprintf(&b, "EXAMPLE RESPONSE: %s\n\n", p.Sample)
	fmt.Fprintf(&b, "SCAM TYPE: %s\n", req.ScamType)
	fmt.Fprintf(&b, "CURRENT GOAL: %s\n", stageGoal(req))
	fmt.Fprintf(&b, "INTELLIGENCE SO FAR: %s\n\n", req.LedgerSummary)
	b.WriteString(`RULES:
1. NEVER reveal you know it's a scam
2. Ask questions that might make the scammer reveal:
   - Phone numbers
   - UPI IDs or payment details
   - Website links
   - Company/organization names
   - Bank account details
3. Keep responses short (1-3 sentences)
4. Show appropriate emotion (worry, confusion, eagerness)
5. Sometimes make spelling/grammar mistakes to seem more human
6. Ask for verification but be willing to proceed

`)
	fmt.Fprintf(&b, "PREVIOUS CONVERSATION:\n%s\n", history.String())
	fmt.Fprintf(&b, "LATEST SCAMMER MESSAGE: %s\n\n", req.Message)
	b.WriteString("Respond as this persona would, naturally continuing the conversation:")

	return b.String()
}

// CleanReply strips meta commentary the model sometimes wraps around the
// in-character reply.
func CleanReply(reply string) string {
	reply = strings.ReplaceAll(reply, "As the victim,", "")
	reply = strings.ReplaceAll(reply, "*", "")
	return strings.TrimSpace(reply)
}
