package index

import (
	"database/sql"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"wastebot/internal/domain"
	"wastebot/internal/embedding/tfidf"
)

// Artifact file names inside the index directory.
const (
	chunksFile  = "chunks.db"
	vectorsFile = "vectors.gob"
)

// vectorArtifact is the gob-encoded companion of the chunk database. It
// carries the vectors in chunk order plus whatever embedder state is
// needed to embed queries the same way the corpus was embedded.
type vectorArtifact struct {
	Embedder  string
	Dimension int
	TFIDF     *tfidf.State
	Vectors   [][]float64
}

func saveChunks(dbPath string, chunks []domain.Chunk) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open chunk database: %w", err)
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chunks`); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO chunks (pos, source, ordinal, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, c := range chunks {
		if _, err := stmt.Exec(pos, c.Source, c.Ordinal, c.Text); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", pos, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

func loadChunks(dbPath string) ([]domain.Chunk, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT source, ordinal, content FROM chunks ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.Source, &c.Ordinal, &c.Text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunks: %w", err)
	}
	return chunks, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			pos INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source)`,
	}
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func saveVectors(path string, art vectorArtifact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create vector artifact: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(art); err != nil {
		return fmt.Errorf("failed to encode vector artifact: %w", err)
	}
	return f.Sync()
}

func loadVectors(path string) (vectorArtifact, error) {
	var art vectorArtifact
	f, err := os.Open(path)
	if err != nil {
		return art, fmt.Errorf("failed to open vector artifact: %w", err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return art, fmt.Errorf("failed to decode vector artifact: %w", err)
	}
	return art, nil
}
