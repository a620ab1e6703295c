package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"wastebot/internal/chunker"
	"wastebot/internal/domain"
	"wastebot/internal/embedding"
	"wastebot/internal/embedding/tfidf"
)

// Indexer builds and loads the persisted two-artifact index: a sqlite
// chunk database and a gob vector artifact, kept side by side in the
// index directory.
type Indexer struct {
	chunker     *chunker.Chunker
	newEmbedder func() embedding.Embedder
	path        string
	fallback    string
	logger      *zap.Logger
}

// Options configures an Indexer. NewEmbedder is a factory rather than an
// instance: every build prepares its own embedder, so an index already
// serving queries never shares mutable embedder state with a rebuild.
type Options struct {
	Chunker      *chunker.Chunker
	NewEmbedder  func() embedding.Embedder
	Path         string
	FallbackFile string
	Logger       *zap.Logger
}

// NewIndexer creates an indexer persisting under opts.Path.
func NewIndexer(opts Options) *Indexer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Indexer{
		chunker:     opts.Chunker,
		newEmbedder: opts.NewEmbedder,
		path:        opts.Path,
		fallback:    opts.FallbackFile,
		logger:      opts.Logger,
	}
}

// Build reads the knowledge base directory, chunks and embeds every
// document, persists both artifacts atomically and returns the fresh
// in-memory index. An existing index stays intact and loadable until
// the new artifacts replace it in one swap.
func (ix *Indexer) Build(ctx context.Context, sourceDir string) (*Index, error) {
	docs, err := ix.loadDocuments(sourceDir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNoDocuments
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, ix.chunker.Split(doc)...)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("knowledge base produced no chunks")
	}

	corpus := make([]string, len(chunks))
	for i, c := range chunks {
		corpus[i] = c.Text
	}
	// A fresh embedder per build: the index currently serving queries
	// keeps its own prepared state until the atomic swap.
	embedder := ix.newEmbedder()
	if err := embedder.Prepare(corpus); err != nil {
		return nil, fmt.Errorf("failed to prepare embedder: %w", err)
	}
	vectors := make([][]float64, len(chunks))
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := embedder.Embed(c.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d from %s: %w", c.Ordinal, c.Source, err)
		}
		vectors[i] = v
	}

	if err := ix.persist(chunks, vectors, embedder); err != nil {
		return nil, err
	}
	ix.logger.Info("index built",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
		zap.String("embedder", embedder.Name()),
	)
	return &Index{chunks: chunks, vectors: vectors, embedder: embedder}, nil
}

// Load reads a previously persisted index. A missing or inconsistent
// pair of artifacts yields domain.ErrIndexNotFound so callers fall back
// to a rebuild.
func (ix *Indexer) Load() (*Index, error) {
	chunksPath := filepath.Join(ix.path, chunksFile)
	vectorsPath := filepath.Join(ix.path, vectorsFile)
	if _, err := os.Stat(chunksPath); err != nil {
		return nil, domain.ErrIndexNotFound
	}
	if _, err := os.Stat(vectorsPath); err != nil {
		return nil, domain.ErrIndexNotFound
	}

	chunks, err := loadChunks(chunksPath)
	if err != nil {
		return nil, err
	}
	art, err := loadVectors(vectorsPath)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 || len(chunks) != len(art.Vectors) {
		ix.logger.Warn("index artifacts inconsistent, rebuild required",
			zap.Int("chunks", len(chunks)),
			zap.Int("vectors", len(art.Vectors)),
		)
		return nil, domain.ErrIndexNotFound
	}

	embedder := ix.newEmbedder()
	if art.TFIDF != nil {
		embedder = tfidf.FromState(*art.TFIDF)
	} else if art.Embedder != embedder.Name() {
		ix.logger.Warn("index built with a different embedder, rebuild required",
			zap.String("persisted", art.Embedder),
			zap.String("configured", embedder.Name()),
		)
		return nil, domain.ErrIndexNotFound
	}

	ix.logger.Info("index loaded",
		zap.Int("chunks", len(chunks)),
		zap.String("embedder", art.Embedder),
	)
	return &Index{chunks: chunks, vectors: art.Vectors, embedder: embedder}, nil
}

func (ix *Indexer) persist(chunks []domain.Chunk, vectors [][]float64, embedder embedding.Embedder) error {
	if err := os.MkdirAll(ix.path, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	staging, err := os.MkdirTemp(ix.path, "staging-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := saveChunks(filepath.Join(staging, chunksFile), chunks); err != nil {
		return err
	}
	art := vectorArtifact{
		Embedder:  embedder.Name(),
		Dimension: embedder.Dimension(),
		Vectors:   vectors,
	}
	if tf, ok := embedder.(*tfidf.Embedder); ok {
		st := tf.State()
		art.TFIDF = &st
	}
	if err := saveVectors(filepath.Join(staging, vectorsFile), art); err != nil {
		return err
	}

	// Swap both artifacts into place only after both are fully written.
	for _, name := range []string{chunksFile, vectorsFile} {
		if err := os.Rename(filepath.Join(staging, name), filepath.Join(ix.path, name)); err != nil {
			return fmt.Errorf("failed to install %s: %w", name, err)
		}
	}
	return nil
}

// loadDocuments walks sourceDir for .txt files. Unreadable or non-UTF-8
// files are skipped with a warning rather than failing the whole build.
// When the directory is missing or empty, the configured fallback file
// is tried as a single-document knowledge base.
func (ix *Indexer) loadDocuments(sourceDir string) ([]domain.Document, error) {
	var docs []domain.Document
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			ix.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !utf8.Valid(data) {
			ix.logger.Warn("skipping non-UTF-8 file", zap.String("path", path))
			return nil
		}
		rel, relErr := filepath.Rel(sourceDir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		docs = append(docs, domain.Document{Source: rel, Content: string(data)})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to walk knowledge base: %w", err)
	}
	if len(docs) > 0 {
		return docs, nil
	}

	if ix.fallback == "" {
		return nil, nil
	}
	// Relative fallback names live inside the knowledge base directory.
	fallback := ix.fallback
	if !filepath.IsAbs(fallback) {
		fallback = filepath.Join(sourceDir, fallback)
	}
	data, err := os.ReadFile(fallback)
	if err != nil {
		ix.logger.Warn("fallback knowledge file unavailable", zap.String("path", fallback), zap.Error(err))
		return nil, nil
	}
	if !utf8.Valid(data) {
		ix.logger.Warn("fallback knowledge file is not UTF-8", zap.String("path", fallback))
		return nil, nil
	}
	ix.logger.Info("using fallback knowledge file", zap.String("path", fallback))
	return []domain.Document{{Source: filepath.Base(fallback), Content: string(data)}}, nil
}
