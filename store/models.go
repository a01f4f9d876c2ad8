// Package store holds the GORM models the dictation core reads and writes,
// and the repositories that load them for one user.
package store

import (
	"time"
)

// Plan tiers.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanBusiness   = "business"
	PlanEnterprise = "enterprise"
)

// Polishing styles.
const (
	StyleFormal          = "formal"
	StyleCasual          = "casual"
	StyleExtremelyCasual = "extremely_casual"
)

// DefaultCategory groups dictionary words and snippets created without one.
const DefaultCategory = "general"

// User is the authenticated account a pipeline call runs for.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"size:255" json:"name"`
	Email              string    `gorm:"size:255;index" json:"email"`
	Plan               string    `gorm:"size:20;not null;default:free" json:"plan"`
	PreferredLanguage  string    `gorm:"size:10;not null;default:en" json:"preferred_language"`
	AutoDetectLanguage bool      `gorm:"not null;default:true" json:"auto_detect_language"`
	// DefaultStyle applies when a polish request names no style. Empty
	// means casual.
	DefaultStyle       string    `gorm:"size:20" json:"default_style"`
	CurrentTeamID      *uint     `gorm:"index" json:"current_team_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsFree reports whether the user is on the free tier.
func (u *User) IsFree() bool { return u.Plan == PlanFree }

type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DictionaryWord biases transcription towards a user's vocabulary.
type DictionaryWord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Word          string    `gorm:"size:255;not null" json:"word"`
	Category      string    `gorm:"size:50;not null;default:general" json:"category"`
	Pronunciation *string   `gorm:"size:255" json:"pronunciation"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SharedDictionaryWord is a team-owned DictionaryWord.
type SharedDictionaryWord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TeamID        uint      `gorm:"not null;index" json:"team_id"`
	CreatedBy     uint      `gorm:"not null" json:"created_by"`
	Word          string    `gorm:"size:255;not null" json:"word"`
	Category      string    `gorm:"size:50;not null;default:general" json:"category"`
	Pronunciation *string   `gorm:"size:255" json:"pronunciation"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CustomCommand replaces a spoken trigger phrase before polishing. Rows
// are created active; Toggle deactivates them.
type CustomCommand struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	TriggerPhrase   string    `gorm:"size:255;not null" json:"trigger_phrase"`
	ReplacementText string    `gorm:"type:text;not null" json:"replacement_text"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Snippet expands a trigger phrase after commands have been applied. Like
// CustomCommand it is created active.
type Snippet struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	TeamID        *uint     `gorm:"index" json:"team_id"`
	TriggerPhrase string    `gorm:"size:100;not null" json:"trigger_phrase"`
	ExpansionText string    `gorm:"type:text;not null" json:"expansion_text"`
	Category      string    `gorm:"size:50;not null;default:general" json:"category"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StylePreference pins the polishing style for one app context.
type StylePreference struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_style_user_app" json:"user_id"`
	AppIdentifier string    `gorm:"size:100;not null;uniqueIndex:idx_style_user_app" json:"app_identifier"`
	AppName       string    `gorm:"size:100" json:"app_name"`
	Style         string    `gorm:"size:20;not null" json:"style"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Usage is the per-day minutes counter. Date is the calendar day at
// midnight UTC; see Day.
type Usage struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_usage_user_date" json:"user_id"`
	Date               time.Time `gorm:"type:date;not null;uniqueIndex:idx_usage_user_date" json:"date"`
	MinutesUsed        float64   `gorm:"type:decimal(10,2);not null;default:0" json:"minutes_used"`
	TranscriptionCount int       `gorm:"not null;default:0" json:"transcription_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Transcription is a history row written by transcribe-and-polish.
type Transcription struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UserID                uint      `gorm:"not null;index:idx_transcription_user_created" json:"user_id"`
	OriginalText          string    `gorm:"type:text;not null" json:"original_text"`
	PolishedText          string    `gorm:"type:text" json:"polished_text"`
	AppContext            *string   `gorm:"size:100" json:"app_context"`
	Style                 string    `gorm:"size:20" json:"style"`
	Language              string    `gorm:"size:10;not null;default:en" json:"language"`
	DurationSeconds       int       `gorm:"not null;default:0" json:"duration_seconds"`
	WordCount             int       `gorm:"not null;default:0" json:"word_count"`
	TranscriptionProvider string    `gorm:"size:50" json:"transcription_provider"`
	PolishingProvider     string    `gorm:"size:50" json:"polishing_provider"`
	CreatedAt             time.Time `gorm:"index:idx_transcription_user_created" json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Models lists every model in migration order.
func Models() []any {
	return []any{
		&User{}, &Team{},
		&DictionaryWord{}, &SharedDictionaryWord{},
		&CustomCommand{}, &Snippet{}, &StylePreference{},
		&Usage{}, &Transcription{},
	}
}

// Day returns the calendar day of t, in t's location, as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
