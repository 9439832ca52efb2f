package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"horse.fit/polyglot/internal/document"
)

// JobStore persists document pipeline jobs and chunks.
type JobStore struct {
	pool *Pool
}

func NewJobStore(pool *Pool) *JobStore {
	return &JobStore{pool: pool}
}

func (s *JobStore) LoadJob(ctx context.Context, id string) (*document.Job, error) {
	if s == nil || s.pool == nil || s.pool.gdb == nil {
		return nil, fmt.Errorf("job store is not initialized")
	}

	var row DocumentJob
	err := s.pool.gdb.WithContext(ctx).First(&row, "job_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, document.ErrJobNotFound
		}
		return nil, fmt.Errorf("query document job: %w", err)
	}

	return jobFromRow(&row), nil
}

func (s *JobStore) SaveJob(ctx context.Context, job *document.Job) error {
	if s == nil || s.pool == nil || s.pool.gdb == nil {
		return fmt.Errorf("job store is not initialized")
	}
	if job == nil {
		return fmt.Errorf("job is nil")
	}

	row := DocumentJob{
		JobID:          job.ID,
		SourcePath:     job.SourcePath,
		FileFormat:     job.FileFormat,
		SourceLang:     job.SourceLang,
		TargetLang:     job.TargetLang,
		Provider:       job.Provider,
		Status:         string(job.Status),
		Progress:       job.Progress,
		TranslatedText: job.TranslatedText,
		ErrorMessage:   job.ErrorMessage,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
		CompletedAt:    job.CompletedAt,
	}

	err := s.pool.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert document job: %w", err)
	}
	return nil
}

func (s *JobStore) LoadChunk(ctx context.Context, jobID string, index int) (*document.Chunk, error) {
	if s == nil || s.pool == nil || s.pool.gdb == nil {
		return nil, fmt.Errorf("job store is not initialized")
	}

	var row DocumentChunk
	err := s.pool.gdb.WithContext(ctx).
		First(&row, "job_id = ? AND chunk_index = ?", jobID, index).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chunk %d of job %s not found", index, jobID)
		}
		return nil, fmt.Errorf("query document chunk: %w", err)
	}

	return &document.Chunk{
		JobID:          row.JobID,
		Index:          row.ChunkIndex,
		SourceText:     row.SourceText,
		TranslatedText: row.TranslatedText,
		Status:         document.Status(row.Status),
	}, nil
}

func (s *JobStore) SaveChunk(ctx context.Context, chunk *document.Chunk) error {
	if s == nil || s.pool == nil || s.pool.gdb == nil {
		return fmt.Errorf("job store is not initialized")
	}
	if chunk == nil {
		return fmt.Errorf("chunk is nil")
	}

	row := DocumentChunk{
		JobID:          chunk.JobID,
		ChunkIndex:     chunk.Index,
		SourceText:     chunk.SourceText,
		TranslatedText: chunk.TranslatedText,
		Status:         string(chunk.Status),
	}

	err := s.pool.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "chunk_index"}},
			DoUpdates: clause.AssignmentColumns([]string{"source_text", "translated_text", "status", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert document chunk: %w", err)
	}
	return nil
}

func jobFromRow(row *DocumentJob) *document.Job {
	return &document.Job{
		ID:             row.JobID,
		SourcePath:     row.SourcePath,
		FileFormat:     row.FileFormat,
		SourceLang:     row.SourceLang,
		TargetLang:     row.TargetLang,
		Provider:       row.Provider,
		Status:         document.Status(row.Status),
		Progress:       row.Progress,
		TranslatedText: row.TranslatedText,
		ErrorMessage:   row.ErrorMessage,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		CompletedAt:    row.CompletedAt,
	}
}
