package polish

import (
	"slices"

	"github.com/kbukum/voicekit/store"
)

// DefaultStyle applies when the caller names none.
const DefaultStyle = store.StyleCasual

var styleClauses = map[string]string{
	store.StyleFormal:          "Clean the text with full punctuation, proper capitalization, and professional grammar.",
	store.StyleCasual:          "Clean the text with basic punctuation, conversational tone. Less formal.",
	store.StyleExtremelyCasual: "Clean the text with minimal punctuation, lowercase, texting style.",
}

// Styles lists the accepted style names.
var Styles = []string{store.StyleFormal, store.StyleCasual, store.StyleExtremelyCasual}

// IsStyle reports whether s is an accepted style name.
func IsStyle(s string) bool { return slices.Contains(Styles, s) }

const promptTemplate = `You are a voice transcription cleaner. Your ONLY job is to:
1. Remove filler words: um, uh, like, you know, basically, actually, so, well, I mean
2. Fix typos and transcription errors
3. Add punctuation where natural pauses occur
4. Capitalize properly

STRICT RULES:
- Keep the EXACT same sentence structure
- Do NOT reformat into lists or bullet points
- Do NOT rephrase or rewrite
- Do NOT add or remove information
- Output should read naturally as spoken text

Style: `

const promptSuffix = `

Output ONLY the cleaned text, nothing else:`

// BuildPrompt returns the system prompt for style. Unknown styles use the
// casual clause.
func BuildPrompt(style string) string {
	clause, ok := styleClauses[style]
	if !ok {
		clause = styleClauses[DefaultStyle]
	}
	return promptTemplate + clause + promptSuffix
}
