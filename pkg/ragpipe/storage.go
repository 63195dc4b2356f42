package ragpipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // Register SQLite3 driver
)

// Storage persists ingested documents and their chunks.
type Storage interface {
	Initialize() error
	SaveDocument(ctx context.Context, info DocumentInfo, chunks []Document) error
	ListDocuments(ctx context.Context) ([]DocumentInfo, error)
	GetDocumentByID(ctx context.Context, documentID string) (*DocumentInfo, error)
	GetDocumentChunks(ctx context.Context, documentID string) ([]Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
	Close() error
}

// DocumentInfo summarizes one stored document.
type DocumentInfo struct {
	ID            string    `json:"id"`
	SourcePath    string    `json:"source_path"`
	FileType      string    `json:"file_type"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	RecordCount   int       `json:"record_count"`
	ChunkCount    int       `json:"chunk_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GetChunkID derives the stable chunk identifier for a document chunk.
func GetChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s:chunk_%d", documentID, index)
}

// SQLiteStorage stores documents and chunks in a local SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a storage handle. The database is opened by
// Initialize, not here.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return &SQLiteStorage{path: path}, nil
}

// Initialize opens the database and creates the schema.
func (s *SQLiteStorage) Initialize() error {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return s.createTables()
}

func (s *SQLiteStorage) createTables() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			file_type TEXT NOT NULL,
			file_size_bytes INTEGER NOT NULL,
			record_count INTEGER NOT NULL,
			chunk_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS chunks (
			chunk_id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			metadata TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
		CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);
		CREATE INDEX IF NOT EXISTS idx_chunks_document_chunk ON chunks(document_id, chunk_index);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// SaveDocument upserts a document and replaces its chunks transactionally.
func (s *SQLiteStorage) SaveDocument(ctx context.Context, info DocumentInfo, chunks []Document) error {
	if s.db == nil {
		return fmt.Errorf("storage not initialized - call Initialize() first")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, source_path, file_type, file_size_bytes, record_count, chunk_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_path = excluded.source_path,
			file_type = excluded.file_type,
			file_size_bytes = excluded.file_size_bytes,
			record_count = excluded.record_count,
			chunk_count = excluded.chunk_count,
			updated_at = excluded.updated_at
	`, info.ID, info.SourcePath, info.FileType, info.FileSizeBytes, info.RecordCount, len(chunks), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, info.ID); err != nil {
		return fmt.Errorf("failed to delete old chunks: %w", err)
	}

	for i, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO chunks (chunk_id, document_id, chunk_index, content, metadata)
			VALUES (?, ?, ?, ?, ?)
		`, GetChunkID(info.ID, i), info.ID, i, chunk.Content, string(metadataJSON))
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// ListDocuments returns all stored documents, newest first.
func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not initialized - call Initialize() first")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_path, file_type, file_size_bytes, record_count, chunk_count, created_at, updated_at
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		if err := rows.Scan(&info.ID, &info.SourcePath, &info.FileType, &info.FileSizeBytes,
			&info.RecordCount, &info.ChunkCount, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, info)
	}
	return docs, rows.Err()
}

// GetDocumentByID returns one stored document, or nil when absent.
func (s *SQLiteStorage) GetDocumentByID(ctx context.Context, documentID string) (*DocumentInfo, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not initialized - call Initialize() first")
	}

	var info DocumentInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_path, file_type, file_size_bytes, record_count, chunk_count, created_at, updated_at
		FROM documents WHERE id = ?
	`, documentID).Scan(&info.ID, &info.SourcePath, &info.FileType, &info.FileSizeBytes,
		&info.RecordCount, &info.ChunkCount, &info.CreatedAt, &info.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &info, nil
}

// GetDocumentChunks returns a document's chunks in index order.
func (s *SQLiteStorage) GetDocumentChunks(ctx context.Context, documentID string) ([]Document, error) {
	if s.db == nil {
		return nil, fmt.Errorf("storage not initialized - call Initialize() first")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT content, metadata FROM chunks
		WHERE document_id = ? ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks: %w", err)
	}
	defer rows.Close()

	var chunks []Document
	for rows.Next() {
		var content string
		var metadataJSON sql.NullString
		if err := rows.Scan(&content, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}

		doc := Document{Content: content, Metadata: make(map[string]any)}
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chunk metadata: %w", err)
			}
		}
		chunks = append(chunks, doc)
	}
	return chunks, rows.Err()
}

// DeleteDocument removes a document and its chunks.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, documentID string) error {
	if s.db == nil {
		return fmt.Errorf("storage not initialized - call Initialize() first")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
