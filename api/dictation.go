package api

import (
	"io"
	"mime/multipart"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/gate"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/polish"
	"github.com/kbukum/voicekit/server"
	"github.com/kbukum/voicekit/store"
	"github.com/kbukum/voicekit/transcription"
	"github.com/kbukum/voicekit/util"
	"github.com/kbukum/voicekit/validation"
)

const audioField = "file"

type transcribeRequest struct {
	Language string `form:"language" validate:"max=10"`
	Provider string `form:"provider" validate:"omitempty,oneof=groq openai deepgram"`
}

type polishRequest struct {
	Text     string `json:"text" validate:"required,max=50000"`
	Style    string `json:"style" validate:"omitempty,oneof=formal casual extremely_casual"`
	Context  string `json:"context" validate:"max=100"`
	Provider string `json:"provider" validate:"omitempty,oneof=groq gemini openai"`
}

type transcribeAndPolishRequest struct {
	Language              string `form:"language" validate:"max=10"`
	Style                 string `form:"style" validate:"omitempty,oneof=formal casual extremely_casual"`
	Context               string `form:"context" validate:"max=100"`
	TranscriptionProvider string `form:"transcription_provider" validate:"omitempty,oneof=groq openai deepgram"`
	PolishingProvider     string `form:"polishing_provider" validate:"omitempty,oneof=groq gemini openai"`
}

// TranscribeAndPolishResponse is the combined result plus the stored
// history row.
type TranscribeAndPolishResponse struct {
	Original string               `json:"original"`
	Polished string               `json:"polished"`
	Duration float64              `json:"duration"`
	Language string               `json:"language"`
	Style    string               `json:"style"`
	History  *store.Transcription `json:"history"`
}

func (h *Handler) transcribe(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req transcribeRequest
	if !bindForm(c, &req) {
		return
	}
	audio, ok := readAudio(c)
	if !ok {
		return
	}
	audio.Provider, audio.Language = req.Provider, req.Language

	out, err := h.transcriber.Transcribe(c.Request.Context(), u, audio)
	if err != nil {
		respondError(c, err)
		return
	}
	gate.RecordDuration(c, out.Duration)
	server.RespondOK(c, out)
}

func (h *Handler) polish(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req polishRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.polisher.Polish(c.Request.Context(), u, polish.Input{
		Text:       req.Text,
		Style:      req.Style,
		AppContext: req.Context,
		Provider:   req.Provider,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	server.RespondOK(c, out)
}

// transcribeAndPolish transcribes, polishes the transcript and stores a
// history row. Usage is tracked by the gate only when all three succeed.
func (h *Handler) transcribeAndPolish(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req transcribeAndPolishRequest
	if !bindForm(c, &req) {
		return
	}
	audio, ok := readAudio(c)
	if !ok {
		return
	}
	audio.Provider, audio.Language = req.TranscriptionProvider, req.Language

	ctx := c.Request.Context()
	transcript, err := h.transcriber.Transcribe(ctx, u, audio)
	if err != nil {
		respondError(c, err)
		return
	}
	polished, err := h.polisher.Polish(ctx, u, polish.Input{
		Text:       transcript.Text,
		Style:      req.Style,
		AppContext: req.Context,
		Provider:   req.PolishingProvider,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	row := &store.Transcription{
		UserID:                u.ID,
		OriginalText:          transcript.Text,
		PolishedText:          polished.Text,
		Style:                 polished.Style,
		Language:              transcript.Language,
		DurationSeconds:       int(transcript.Duration),
		WordCount:             wordCount(polished.Text),
		TranscriptionProvider: transcript.Provider,
		PolishingProvider:     polished.Provider,
	}
	if req.Context != "" {
		row.AppContext = util.Ptr(req.Context)
	}
	if err := h.store.History.Create(ctx, row); err != nil {
		respondError(c, err)
		return
	}

	h.log.WithContext(ctx).Info("dictation completed", logger.Fields(
		logger.FieldUserID, u.ID,
		logger.FieldAppContext, util.Deref(row.AppContext),
		"transcription_provider", transcript.Provider,
		"polishing_provider", polished.Provider,
		"words", row.WordCount,
	))
	gate.RecordDuration(c, transcript.Duration)
	server.RespondOK(c, TranscribeAndPolishResponse{
		Original: transcript.Text,
		Polished: polished.Text,
		Duration: transcript.Duration,
		Language: transcript.Language,
		Style:    polished.Style,
		History:  row,
	})
}

func bindForm(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil {
		respondError(c, apperrors.Validation("malformed form: "+err.Error()))
		return false
	}
	if err := validation.Validate(req); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// readAudio validates the uploaded file and reads it into memory.
func readAudio(c *gin.Context) (transcription.Input, bool) {
	fh, err := c.FormFile(audioField)
	if err != nil {
		respondError(c, validation.New().Required(audioField, "").Validate())
		return transcription.Input{}, false
	}
	contentType := fh.Header.Get("Content-Type")
	if err := validation.New().Audio(audioField, fh.Filename, contentType, fh.Size).Validate(); err != nil {
		respondError(c, err)
		return transcription.Input{}, false
	}

	data, err := readFile(fh)
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return transcription.Input{}, false
	}
	return transcription.Input{Audio: data, MimeType: contentType, FileName: fh.Filename}, true
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// wordCount counts runs of letters, apostrophes and hyphens.
func wordCount(s string) int {
	return len(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	}))
}
