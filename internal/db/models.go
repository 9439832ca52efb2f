package db

import (
	"encoding/json"
	"time"
)

// DocumentJob maps polyglot.document_jobs.
type DocumentJob struct {
	JobID          string     `gorm:"column:job_id;type:uuid;primaryKey"`
	SourcePath     string     `gorm:"column:source_path;type:text;not null"`
	FileFormat     string     `gorm:"column:file_format;type:text;not null;default:txt"`
	SourceLang     string     `gorm:"column:source_lang;type:text;not null;default:auto"`
	TargetLang     string     `gorm:"column:target_lang;type:text;not null"`
	Provider       string     `gorm:"column:provider;type:text;not null;default:''"`
	Status         string     `gorm:"column:status;type:text;not null;default:pending"`
	Progress       int        `gorm:"column:progress;type:integer;not null;default:0"`
	TranslatedText string     `gorm:"column:translated_text;type:text;not null;default:''"`
	ErrorMessage   *string    `gorm:"column:error_message;type:text"`
	CreatedAt      time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
	CompletedAt    *time.Time `gorm:"column:completed_at;type:timestamptz"`
}

func (DocumentJob) TableName() string { return "polyglot.document_jobs" }

// DocumentChunk maps polyglot.document_chunks.
type DocumentChunk struct {
	ChunkID        int64     `gorm:"column:chunk_id;primaryKey;autoIncrement"`
	JobID          string    `gorm:"column:job_id;type:uuid;not null;uniqueIndex:ux_document_chunks_job_index,priority:1"`
	ChunkIndex     int       `gorm:"column:chunk_index;type:integer;not null;uniqueIndex:ux_document_chunks_job_index,priority:2"`
	SourceText     string    `gorm:"column:source_text;type:text;not null"`
	TranslatedText string    `gorm:"column:translated_text;type:text;not null;default:''"`
	Status         string    `gorm:"column:status;type:text;not null;default:pending"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (DocumentChunk) TableName() string { return "polyglot.document_chunks" }

// CachedTranslation maps polyglot.cached_translations. Entries are
// immutable once written; a write is always a whole-row overwrite.
type CachedTranslation struct {
	Fingerprint string          `gorm:"column:fingerprint;type:text;primaryKey"`
	Payload     json.RawMessage `gorm:"column:payload;type:jsonb;not null"`
	ExpiresAt   time.Time       `gorm:"column:expires_at;type:timestamptz;not null;index:ix_cached_translations_expires_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (CachedTranslation) TableName() string { return "polyglot.cached_translations" }
