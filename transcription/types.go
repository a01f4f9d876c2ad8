package transcription

import (
	"path"
	"strings"

	"github.com/kbukum/voicekit/provider"
)

// Provider keys.
const (
	Groq     = "groq"
	OpenAI   = "openai"
	Deepgram = "deepgram"
)

// MaxVocabulary caps the biasing words sent to any provider.
const MaxVocabulary = 50

// DefaultLanguage is reported when neither the provider nor the caller
// supplied a language.
const DefaultLanguage = "en"

// Request is one audio upload sent to a provider.
type Request struct {
	Audio    []byte
	MimeType string
	// FileName is the uploaded file name. Multipart providers use its
	// extension to detect the container format.
	FileName string
	// Language is the ISO hint. Empty asks the provider to auto-detect.
	Language string
	// Vocabulary biases recognition. Clients send at most MaxVocabulary words.
	Vocabulary []string
}

// Result is the normalized provider response.
type Result struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Language string  `json:"language"`
}

// Provider is a transcription client.
type Provider = provider.RequestResponse[Request, *Result]

// Truncate returns at most the first MaxVocabulary words.
func Truncate(words []string) []string {
	if len(words) > MaxVocabulary {
		return words[:MaxVocabulary]
	}
	return words
}

// ResolveLanguage picks the provider-reported language, then the hint, then
// DefaultLanguage.
func ResolveLanguage(reported, hint string) string {
	if reported != "" {
		return reported
	}
	if hint != "" {
		return hint
	}
	return DefaultLanguage
}

var extensions = map[string]string{
	"audio/wav":    ".wav",
	"audio/x-wav":  ".wav",
	"audio/wave":   ".wav",
	"audio/mpeg":   ".mp3",
	"audio/mp3":    ".mp3",
	"audio/webm":   ".webm",
	"video/webm":   ".webm",
	"audio/mp4":    ".m4a",
	"audio/x-m4a":  ".m4a",
	"audio/m4a":    ".m4a",
	"audio/ogg":    ".ogg",
	"audio/flac":   ".flac",
	"audio/x-flac": ".flac",
}

// Filename returns FileName, or "audio" with an extension derived from
// MimeType when the upload had no usable name.
func (r Request) Filename() string {
	if r.FileName != "" && path.Ext(r.FileName) != "" {
		return r.FileName
	}
	mime, _, _ := strings.Cut(r.MimeType, ";")
	if ext, ok := extensions[strings.TrimSpace(strings.ToLower(mime))]; ok {
		return "audio" + ext
	}
	return "audio.wav"
}
