// internal/ai/prompts.go
// Prompt construction and response cleanup helpers

package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Truncate bounds free text before it goes into a prompt. Text over the limit
// is cut and marked with an ellipsis so the model knows it is incomplete.
// The limit counts characters, not bytes, so umlauts in German listing text
// don't eat into the budget or get split mid-rune.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// StripFences removes a surrounding markdown code fence from a model
// response. Models frequently wrap JSON in ```json ... ``` despite being told
// not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// buildPreferencePrompt asks the model to turn a free-text apartment wish
// into the fixed JSON shape of ExtractedPreferences.
func buildPreferencePrompt(description string) string {
	var b strings.Builder

	b.WriteString("Analyze this apartment search description and extract structured preferences.\n\n")
	b.WriteString("Description: \"")
	b.WriteString(description)
	b.WriteString("\"\n\n")
	b.WriteString("Return ONLY a JSON object with exactly these fields (no markdown, no explanation):\n")
	b.WriteString(`{
  "quiet": boolean,
  "nearParks": boolean,
  "familyFriendly": boolean,
  "petFriendly": boolean,
  "nearPublicTransport": boolean,
  "nearShopping": boolean,
  "nearRestaurants": boolean,
  "budget": string,
  "minRooms": number,
  "maxRent": number,
  "preferredDistricts": [string],
  "lifestyle": string
}`)
	b.WriteString("\n\nUse false, 0, \"\" or [] for anything the description does not mention.")

	return b.String()
}

// batchEntry is one listing's contribution to a batch scoring prompt.
type batchEntry struct {
	Index      int
	ListingID  string
	Offered    string
	LookingFor string
}

// buildBatchScoringPrompt builds one prompt covering a whole batch of
// listings. The two comparison directions are spelled out as separate parts
// with explicit rules, because mixing them up produces misleading reasons.
func buildBatchScoringPrompt(userWants, userHas, userFacts string, entries []batchEntry) string {
	var b strings.Builder

	b.WriteString("You are matching apartment swap partners in Berlin. ")
	b.WriteString(fmt.Sprintf("Evaluate %d candidate listings against one user. ", len(entries)))
	b.WriteString("For EACH listing perform TWO INDEPENDENT comparisons:\n\n")

	b.WriteString("PART 1 - What the user WANTS vs what the listing OFFERS:\n")
	b.WriteString("User is looking for: \"")
	b.WriteString(userWants)
	b.WriteString("\"\n\n")

	b.WriteString("PART 2 - What the user HAS vs what the listing author is LOOKING FOR:\n")
	b.WriteString("User's current apartment: \"")
	b.WriteString(userHas)
	b.WriteString("\"\n")
	if userFacts != "" {
		b.WriteString("Confirmed facts about the user's apartment (these OVERRIDE the description above if they conflict): ")
		b.WriteString(userFacts)
		b.WriteString("\n")
	}
	b.WriteString("\nListings:\n")

	for _, e := range entries {
		b.WriteString(fmt.Sprintf("\n--- Listing %d ---\n", e.Index))
		offered := e.Offered
		if offered == "" {
			offered = "(no description)"
		}
		lookingFor := e.LookingFor
		if lookingFor == "" {
			lookingFor = "(not stated)"
		}
		b.WriteString("They offer: \"")
		b.WriteString(offered)
		b.WriteString("\"\n")
		b.WriteString("They are looking for: \"")
		b.WriteString(lookingFor)
		b.WriteString("\"\n")
	}

	b.WriteString(`
CRITICAL RULES:
1. In "whatYouWantAndTheyHave", ONLY mention features of the listing's offered apartment that match what the user wants. NEVER mention the user's own apartment here.
2. In "whatYouHaveAndTheyWant", ONLY mention features of the user's apartment that match what the listing author is looking for. NEVER describe the listing's current apartment here.
3. Treat PART 1 and PART 2 as completely separate computations. Do not let one influence the other.
4. Always provide at least one bullet per list when any plausible match exists. Prefer a generous plausible inference over an empty list.

Scoring: 8-10 strong match, 6-7 good match, 4-5 mediocre, 1-3 clearly incompatible. When in doubt, lean toward the higher score.

Return ONLY a JSON array (no markdown), one object per listing in the same order:
[
  {
    "listingIndex": number,
    "score": number,
    "whatYouWantAndTheyHave": [string],
    "whatYouHaveAndTheyWant": [string]
  }
]`)

	return b.String()
}
