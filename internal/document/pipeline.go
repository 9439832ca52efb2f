// Package document drives chunked document translation: extract, split,
// translate chunk by chunk, reassemble. A single failing chunk never fails
// the whole document.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/translation"
)

// Status is a job or chunk processing state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrJobNotFound reports an unknown job id.
var ErrJobNotFound = errors.New("document job not found")

// ErrJobAlreadyRunning guards against two executions mutating one job.
var ErrJobAlreadyRunning = errors.New("document job is already processing")

// Job is one document translation job. A Job is mutated only by the single
// pipeline execution that owns it.
type Job struct {
	ID             string
	SourcePath     string
	FileFormat     string
	SourceLang     string
	TargetLang     string
	Provider       string
	Status         Status
	Progress       int
	TranslatedText string
	ErrorMessage   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// Chunk is one bounded slice of a document's source text. Order is
// significant: reassembly concatenates chunks strictly by Index.
type Chunk struct {
	JobID          string
	Index          int
	SourceText     string
	TranslatedText string
	Status         Status
}

// Store persists job and chunk state so progress is observable outside
// the process.
type Store interface {
	LoadJob(ctx context.Context, id string) (*Job, error)
	SaveJob(ctx context.Context, job *Job) error
	LoadChunk(ctx context.Context, jobID string, index int) (*Chunk, error)
	SaveChunk(ctx context.Context, chunk *Chunk) error
}

// Extractor turns a stored document into plain text.
type Extractor interface {
	Extract(ctx context.Context, path, format string) (string, error)
}

// Translator is the single-chunk translation capability, satisfied by the
// orchestrator.
type Translator interface {
	Translate(ctx context.Context, req translation.Request) (*translation.Result, error)
}

// Pipeline translates documents chunk by chunk.
type Pipeline struct {
	store      Store
	extractor  Extractor
	translator Translator
	chunkSize  int
	logger     zerolog.Logger
	newID      func() string
	now        func() time.Time
}

func NewPipeline(store Store, extractor Extractor, translator Translator, chunkSize int, logger zerolog.Logger) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pipeline{
		store:      store,
		extractor:  extractor,
		translator: translator,
		chunkSize:  chunkSize,
		logger:     logger,
		newID:      func() string { return uuid.NewString() },
		now:        time.Now,
	}
}

// StartJobParams describes a new document translation job.
type StartJobParams struct {
	SourcePath string
	FileFormat string
	SourceLang string
	TargetLang string
	Provider   string
}

// StartJob creates and persists a pending job record. The caller decides
// when (and on which goroutine) to Run it.
func (p *Pipeline) StartJob(ctx context.Context, params StartJobParams) (*Job, error) {
	if p == nil || p.store == nil {
		return nil, fmt.Errorf("document pipeline is not initialized")
	}
	if strings.TrimSpace(params.SourcePath) == "" {
		return nil, fmt.Errorf("source path is required")
	}
	if strings.TrimSpace(params.TargetLang) == "" {
		return nil, fmt.Errorf("target language is required")
	}

	now := p.now()
	job := &Job{
		ID:         p.newID(),
		SourcePath: params.SourcePath,
		FileFormat: params.FileFormat,
		SourceLang: params.SourceLang,
		TargetLang: params.TargetLang,
		Provider:   params.Provider,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := p.store.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("save document job: %w", err)
	}
	return job, nil
}

// GetJobStatus returns the persisted state of a job.
func (p *Pipeline) GetJobStatus(ctx context.Context, id string) (*Job, error) {
	if p == nil || p.store == nil {
		return nil, fmt.Errorf("document pipeline is not initialized")
	}
	return p.store.LoadJob(ctx, id)
}

// Run executes one job to a terminal state. Chunk-level translation
// failures substitute the chunk's own source text and do not fail the
// job; extraction or persistence failures outside the chunk loop do.
func (p *Pipeline) Run(ctx context.Context, jobID string) error {
	if p == nil || p.store == nil || p.extractor == nil || p.translator == nil {
		return fmt.Errorf("document pipeline is not initialized")
	}

	job, err := p.store.LoadJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status == StatusProcessing {
		return ErrJobAlreadyRunning
	}

	job.Status = StatusProcessing
	job.Progress = 0
	job.ErrorMessage = nil
	job.UpdatedAt = p.now()
	if err := p.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save document job: %w", err)
	}

	p.logger.Info().Str("job_id", job.ID).Str("path", job.SourcePath).Msg("document translation started")

	text, err := p.extractor.Extract(ctx, job.SourcePath, job.FileFormat)
	if err != nil {
		return p.failJob(ctx, job, fmt.Errorf("extract text: %w", err))
	}

	chunks := Split(text, p.chunkSize)
	total := len(chunks)

	records := make([]*Chunk, total)
	for i, sourceText := range chunks {
		records[i] = &Chunk{
			JobID:      job.ID,
			Index:      i,
			SourceText: sourceText,
			Status:     StatusPending,
		}
		if err := p.store.SaveChunk(ctx, records[i]); err != nil {
			return p.failJob(ctx, job, fmt.Errorf("save chunk %d: %w", i, err))
		}
	}

	translated := make([]string, 0, total)
	for i, chunk := range records {
		// Cancellation is cooperative, checked between chunks.
		if err := ctx.Err(); err != nil {
			return p.failJob(ctx, job, err)
		}

		job.Progress = i * 100 / total
		job.UpdatedAt = p.now()
		if err := p.store.SaveJob(ctx, job); err != nil {
			return p.failJob(ctx, job, fmt.Errorf("save document job: %w", err))
		}

		result, err := p.translator.Translate(ctx, translation.Request{
			Text:       chunk.SourceText,
			SourceLang: job.SourceLang,
			TargetLang: job.TargetLang,
			Provider:   job.Provider,
		})
		if err != nil {
			// The document must stay complete and well ordered, so a
			// failed chunk keeps its own source text.
			p.logger.Error().Err(err).Str("job_id", job.ID).Int("chunk", i).Msg("chunk translation failed")
			chunk.Status = StatusFailed
			chunk.TranslatedText = chunk.SourceText
		} else {
			chunk.Status = StatusCompleted
			chunk.TranslatedText = result.TranslatedText
		}
		translated = append(translated, chunk.TranslatedText)

		if err := p.store.SaveChunk(ctx, chunk); err != nil {
			return p.failJob(ctx, job, fmt.Errorf("save chunk %d: %w", i, err))
		}

		p.logger.Info().Str("job_id", job.ID).Int("chunk", i+1).Int("total", total).Msg("chunk processed")
	}

	job.TranslatedText = strings.Join(translated, "\n")
	job.Status = StatusCompleted
	job.Progress = 100
	now := p.now()
	job.UpdatedAt = now
	job.CompletedAt = &now
	if err := p.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("save completed job: %w", err)
	}

	p.logger.Info().Str("job_id", job.ID).Int("chunks", total).Msg("document translation completed")
	return nil
}

func (p *Pipeline) failJob(ctx context.Context, job *Job, cause error) error {
	message := cause.Error()
	job.Status = StatusFailed
	job.ErrorMessage = &message
	job.UpdatedAt = p.now()
	// The failure state must still be persisted when ctx itself is the cause.
	if saveErr := p.store.SaveJob(context.WithoutCancel(ctx), job); saveErr != nil {
		p.logger.Error().Err(saveErr).Str("job_id", job.ID).Msg("save failed job state")
	}
	p.logger.Error().Err(cause).Str("job_id", job.ID).Msg("document translation failed")
	return cause
}
