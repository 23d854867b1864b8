package domain

import "time"

// Subjects published on the message queue.
const (
	SubjectGuestCreated   = "vox.guest.created"
	SubjectVoiceProcessed = "vox.voice.processed"
	SubjectWebsiteSaved   = "vox.website.saved"
)

type GuestCreatedEvent struct {
	UserID     string    `json:"userId"`
	WebsiteID  string    `json:"websiteId"`
	Slug       string    `json:"slug"`
	OccurredAt time.Time `json:"occurredAt"`
}

// VoiceProcessedEvent carries no audio or transcript, only the run's outcome.
type VoiceProcessedEvent struct {
	UserID           string          `json:"userId"`
	WebsiteID        string          `json:"websiteId"`
	BusinessType     string          `json:"businessType"`
	DetectedLanguage string          `json:"detectedLanguage"`
	ProcessingSteps  ProcessingSteps `json:"processingSteps"`
	LowConfidence    bool            `json:"lowConfidence"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

type WebsiteSavedEvent struct {
	UserID     string    `json:"userId"`
	WebsiteID  string    `json:"websiteId"`
	Slug       string    `json:"slug"`
	OccurredAt time.Time `json:"occurredAt"`
}
