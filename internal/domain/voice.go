package domain

// EnglishLanguage is the language code that skips translation.
const EnglishLanguage = "en"

// LowConfidenceThreshold marks transcriptions worth flagging to the caller.
const LowConfidenceThreshold = 0.5

// AudioInput is the raw upload for one pipeline run. It is never persisted.
type AudioInput struct {
	Data     []byte
	MimeType string
}

type TranscriptionResult struct {
	Text             string  `json:"text"`
	DetectedLanguage string  `json:"detectedLanguage"`
	Confidence       float64 `json:"confidence"`
}

type TranslationResult struct {
	TranslatedText   string `json:"translatedText"`
	OriginalLanguage string `json:"originalLanguage"`
	WasTranslated    bool   `json:"wasTranslated"`
}

// ProcessingSteps records which pipeline stages actually ran.
type ProcessingSteps struct {
	Transcription    bool `json:"transcription"`
	Translation      bool `json:"translation"`
	IntentExtraction bool `json:"intentExtraction"`
}

// PipelineResult is the envelope returned by a successful voice pipeline run.
type PipelineResult struct {
	Intent           WebsiteIntent   `json:"intent"`
	DetectedLanguage string          `json:"detectedLanguage"`
	ProcessingSteps  ProcessingSteps `json:"processingSteps"`
	Confidence       float64         `json:"confidence"`
	LowConfidence    bool            `json:"lowConfidence"`
}

// Stage names a pipeline step.
type Stage string

const (
	StageTranscription    Stage = "transcription"
	StageTranslation      Stage = "translation"
	StageIntentExtraction Stage = "intentExtraction"
)

type StageStatus string

const (
	StageStarted   StageStatus = "started"
	StageCompleted StageStatus = "completed"
	StageSkipped   StageStatus = "skipped"
	StageFailed    StageStatus = "failed"
)

// StageEvent reports progress of one pipeline stage.
type StageEvent struct {
	Stage  Stage       `json:"stage"`
	Status StageStatus `json:"status"`
}
