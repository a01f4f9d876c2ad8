// Package polish cleans up transcripts with an LLM.
//
// Before the LLM call the user's active custom commands and then active
// snippets are substituted into the text, case-insensitively and for every
// occurrence. The system prompt is built from a fixed template and one of
// three style clauses; a stored per-app style preference overrides the
// requested style.
//
// Providers are groq and openai (OpenAI chat completions dialect) and
// gemini (generateContent dialect). A completion response missing its text
// field degrades to returning the input unchanged.
//
//	reg := provider.NewRegistry[polish.Provider](polish.Gemini)
//	for _, name := range []string{polish.Groq, polish.Gemini, polish.OpenAI} {
//	    c, err := polish.New(name, llm.Config{APIKey: keys[name]})
//	    ...
//	    reg.Register(c)
//	}
//	p := polish.NewPipeline(reg, polish.StoreRules{Store: st}, st.Styles, polish.Gemini, log)
package polish
