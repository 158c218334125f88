package resolver

import (
	"fmt"
	"strings"
)

// buildPrompt constructs the disambiguation prompt: the raw customer
// query, the candidate products with prices, the last few conversation
// turns (most recent first), and explicit resolution rules. The model is
// asked for a single JSON object so the parser can extract it from
// surrounding prose.
func buildPrompt(query string, candidates []candidate, history []ConversationTurn, maxTurns int) string {
	var b strings.Builder

	b.WriteString("You resolve ambiguous product references in an Arabic customer-support conversation.\n")
	b.WriteString("Decide which ONE of the store's products the customer means, if any.\n\n")

	b.WriteString("Customer message:\n")
	b.WriteString(query)
	b.WriteString("\n\nStore products:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s - %.0f EGP", i+1, c.name, c.price)
		if c.description != "" {
			fmt.Fprintf(&b, " (%s)", c.description)
		}
		b.WriteString("\n")
	}

	if len(history) > 0 {
		b.WriteString("\nRecent conversation (most recent first):\n")
		for i, turn := range history {
			if i >= maxTurns {
				break
			}
			fmt.Fprintf(&b, "- customer: %s\n", turn.CustomerMessage)
			if turn.Response != "" {
				fmt.Fprintf(&b, "  agent: %s\n", turn.Response)
			}
		}
	}

	b.WriteString(`
Rules:
1. If the message says "the other one" or "a different one" (التاني, غيره, مختلف), pick a product OTHER than the one most recently discussed.
2. If an exact product name appears in the message, prefer it.
3. If only a color is mentioned, use the conversation to infer which product is meant.
4. If you are not sure, return confidence below 0.3.

Answer with exactly one JSON object, no other text:
{"product_name": "<name or null>", "confidence": <0.0-1.0>, "reasoning": "<short reason>"}
`)

	return b.String()
}
