// Package transcription turns uploaded audio into text through one of the
// speech-to-text providers.
//
// Clients:
//
//   - transcription/whisper: Groq and OpenAI Whisper over go-openai
//   - transcription/deepgram: Deepgram's listen endpoint
//
// Pipeline resolves the provider, language and biasing vocabulary for a
// user before calling the client:
//
//	reg := provider.NewRegistry[transcription.Provider](transcription.Groq)
//	reg.Register(whisper.NewGroq(groqKey))
//	dg, _ := deepgram.New(deepgram.Config{APIKey: dgKey})
//	reg.Register(dg)
//
//	p := transcription.NewPipeline(reg, st.Dictionary, transcription.Groq, log)
//	out, err := p.Transcribe(ctx, user, transcription.Input{Audio: data, MimeType: "audio/webm"})
package transcription
