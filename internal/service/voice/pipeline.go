// Package voice orchestrates the voice-to-website pipeline:
// transcription, translation to English, then intent extraction.
package voice

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-site/internal/domain"
	"github.com/seu-repo/vox-site/internal/observability/telemetry"
	"github.com/seu-repo/vox-site/internal/ports"
)

// Pipeline implements ports.VoicePipeline. It holds no per-run state, so one
// instance serves concurrent requests.
type Pipeline struct {
	transcriber ports.Transcriber
	translator  ports.Translator
	extractor   ports.IntentExtractor
	tracer      trace.Tracer
	logger      *zap.Logger
}

func NewPipeline(
	transcriber ports.Transcriber,
	translator ports.Translator,
	extractor ports.IntentExtractor,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		translator:  translator,
		extractor:   extractor,
		tracer:      telemetry.Tracer(),
		logger:      logger,
	}
}

// Process runs the three stages in order and stops at the first failure.
func (p *Pipeline) Process(ctx context.Context, audio []byte, mimeType string) (*domain.PipelineResult, error) {
	return p.ProcessWithProgress(ctx, audio, mimeType, nil)
}

// ProcessWithProgress is Process with a callback invoked as each stage starts,
// completes, is skipped or fails. The callback runs on the caller's goroutine.
func (p *Pipeline) ProcessWithProgress(
	ctx context.Context,
	audio []byte,
	mimeType string,
	progress func(domain.StageEvent),
) (*domain.PipelineResult, error) {
	ctx, span := p.tracer.Start(ctx, "voice.pipeline")
	defer span.End()

	emit := func(stage domain.Stage, status domain.StageStatus) {
		if progress != nil {
			progress(domain.StageEvent{Stage: stage, Status: status})
		}
	}

	result, err := p.run(ctx, audio, mimeType, emit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		telemetry.PipelineRunsTotal.WithLabelValues("failed").Inc()
		if appErr, ok := domain.AsError(err); ok && appErr.Kind == domain.KindExternalService {
			telemetry.ProviderErrorsTotal.WithLabelValues(appErr.Service, appErr.Code).Inc()
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("voice.detected_language", result.DetectedLanguage),
		attribute.Bool("voice.translated", result.ProcessingSteps.Translation),
		attribute.Bool("voice.low_confidence", result.LowConfidence),
	)
	telemetry.PipelineRunsTotal.WithLabelValues("succeeded").Inc()
	return result, nil
}

func (p *Pipeline) run(
	ctx context.Context,
	audio []byte,
	mimeType string,
	emit func(domain.Stage, domain.StageStatus),
) (*domain.PipelineResult, error) {
	// 1. Transcription
	var transcription *domain.TranscriptionResult
	err := p.stage(ctx, domain.StageTranscription, emit, func(ctx context.Context) (bool, error) {
		var err error
		transcription, err = p.transcriber.Transcribe(ctx, audio, mimeType)
		return false, err
	})
	if err != nil {
		return nil, err
	}

	lowConfidence := transcription.Confidence < domain.LowConfidenceThreshold
	if lowConfidence {
		p.logger.Warn("Low transcription confidence",
			zap.Float64("confidence", transcription.Confidence),
			zap.String("language", transcription.DetectedLanguage),
		)
	}

	// 2. Translation (short-circuits inside the translator for English)
	var translation *domain.TranslationResult
	err = p.stage(ctx, domain.StageTranslation, emit, func(ctx context.Context) (bool, error) {
		var err error
		translation, err = p.translator.Translate(ctx, transcription.Text, transcription.DetectedLanguage)
		if err != nil {
			return false, err
		}
		return !translation.WasTranslated, nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Intent extraction
	var intent *domain.WebsiteIntent
	err = p.stage(ctx, domain.StageIntentExtraction, emit, func(ctx context.Context) (bool, error) {
		var err error
		intent, err = p.extractor.ExtractIntent(ctx, translation.TranslatedText)
		return false, err
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Voice pipeline completed",
		zap.String("business_type", intent.BusinessType),
		zap.String("language", transcription.DetectedLanguage),
		zap.Bool("translated", translation.WasTranslated),
	)

	return &domain.PipelineResult{
		Intent:           *intent,
		DetectedLanguage: transcription.DetectedLanguage,
		ProcessingSteps: domain.ProcessingSteps{
			Transcription:    true,
			Translation:      translation.WasTranslated,
			IntentExtraction: true,
		},
		Confidence:    transcription.Confidence,
		LowConfidence: lowConfidence,
	}, nil
}

// stage runs fn inside a span, records its duration and reports progress.
// fn reports whether the stage was skipped.
func (p *Pipeline) stage(
	ctx context.Context,
	stage domain.Stage,
	emit func(domain.Stage, domain.StageStatus),
	fn func(ctx context.Context) (bool, error),
) error {
	ctx, span := p.tracer.Start(ctx, "voice."+string(stage))
	defer span.End()

	emit(stage, domain.StageStarted)
	start := time.Now()

	skipped, err := fn(ctx)
	telemetry.PipelineStageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		emit(stage, domain.StageFailed)
		p.logger.Error("Voice pipeline stage failed",
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
		return err
	}

	if skipped {
		span.SetAttributes(attribute.Bool("voice.skipped", true))
		emit(stage, domain.StageSkipped)
		return nil
	}
	emit(stage, domain.StageCompleted)
	return nil
}
