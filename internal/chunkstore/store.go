// Package chunkstore persists retrieved content chunks for later ranking.
//
// It is the retrieval-side input plumbing of the ranking pipeline: chunks
// ingested here come back out of Search with their stored metadata and
// embeddings attached, ready to be handed to the ranking engine. Ranked
// results are never persisted.
package chunkstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/rankd/internal/config"
	"github.com/fyrsmithlabs/rankd/internal/embeddings"
	"github.com/fyrsmithlabs/rankd/internal/ranking"
)

var tracer = otel.Tracer("github.com/fyrsmithlabs/rankd/internal/chunkstore")

var (
	// ErrInvalidConfig indicates invalid store configuration.
	ErrInvalidConfig = errors.New("chunkstore: invalid configuration")

	// ErrEmptyChunks indicates an Add call without chunks.
	ErrEmptyChunks = errors.New("chunkstore: no chunks to add")
)

// Store persists chunks in an embedded chromem-go database.
//
// chromem-go is a pure-Go vector database with no external service
// dependency, which keeps ingestion working in the same no-network
// environments the ranking fallbacks are designed for.
type Store struct {
	db         *chromem.DB
	embedder   embeddings.Provider
	collection string
	logger     *zap.Logger
}

// New creates a Store at the configured path. The embedder is used both
// to embed ingested chunks and to embed search queries.
func New(cfg config.StoreConfig, embedder embeddings.Provider, logger *zap.Logger) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("%w: collection name is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	path, err := expandPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("creating chromem DB: %w", err)
	}

	logger.Info("chunk store initialized",
		zap.String("path", path),
		zap.String("collection", cfg.Collection),
		zap.Bool("compress", cfg.Compress),
	)

	return &Store{
		db:         db,
		embedder:   embedder,
		collection: cfg.Collection,
		logger:     logger,
	}, nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// embeddingFunc adapts the embedding provider for chromem.
func (s *Store) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

func (s *Store) getCollection() (*chromem.Collection, error) {
	collection, err := s.db.GetOrCreateCollection(s.collection, nil, s.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", s.collection, err)
	}
	return collection, nil
}

// Add ingests chunks into the store, embedding each chunk's text unless
// it already carries an embedding. Returns the chunk IDs; chunks without
// an ID get a generated UUID.
func (s *Store) Add(ctx context.Context, chunks []ranking.Chunk) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Store.Add")
	defer span.End()
	span.SetAttributes(attribute.Int("chunk_count", len(chunks)))

	if len(chunks) == 0 {
		return nil, ErrEmptyChunks
	}

	collection, err := s.getCollection()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	docs := make([]chromem.Document, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = uuid.NewString()

		embedding := chunk.Metadata.Embedding
		if len(embedding) == 0 && chunk.Text != "" {
			embedding, err = s.embedder.EmbedQuery(ctx, chunk.Text)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, fmt.Errorf("embedding chunk %d: %w", i, err)
			}
		}

		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   chunk.Text,
			Metadata:  metadataToMap(chunk.Metadata),
			Embedding: embedding,
		}
	}

	// Concurrency of 1 since embeddings are already computed.
	if err := collection.AddDocuments(ctx, docs, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	s.logger.Debug("added chunks", zap.Int("count", len(ids)))
	return ids, nil
}

// Search retrieves up to limit chunks semantically close to the query
// text, with stored metadata and embeddings attached. The returned chunks
// carry no scores; ranking them is the engine's job.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]ranking.Chunk, error) {
	ctx, span := tracer.Start(ctx, "Store.Search")
	defer span.End()
	span.SetAttributes(attribute.Int("limit", limit))

	if query == "" {
		return []ranking.Chunk{}, nil
	}

	collection, err := s.getCollection()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// chromem rejects result counts above the collection size.
	count := collection.Count()
	if count == 0 {
		return []ranking.Chunk{}, nil
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	results, err := collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	chunks := make([]ranking.Chunk, len(results))
	for i, result := range results {
		chunks[i] = ranking.Chunk{
			Text:     result.Content,
			Metadata: metadataFromMap(result.Metadata, result.Embedding),
		}
	}

	s.logger.Debug("search returned chunks",
		zap.String("query", query),
		zap.Int("count", len(chunks)),
	)
	return chunks, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count() (int, error) {
	collection, err := s.getCollection()
	if err != nil {
		return 0, err
	}
	return collection.Count(), nil
}

// metadataToMap flattens chunk metadata into chromem's string map.
// Scores are intentionally excluded; the store holds unranked input.
func metadataToMap(m ranking.Metadata) map[string]string {
	out := make(map[string]string)
	if m.URL != "" {
		out["url"] = m.URL
	}
	if m.Title != "" {
		out["title"] = m.Title
	}
	if m.SourceType != "" {
		out["source_type"] = m.SourceType
	}
	if m.PublicationDate != "" {
		out["publication_date"] = m.PublicationDate
	}
	if len(m.Authors) > 0 {
		out["authors"] = strings.Join(m.Authors, ", ")
	}
	return out
}

// metadataFromMap rebuilds chunk metadata from the stored string map.
func metadataFromMap(m map[string]string, embedding []float32) ranking.Metadata {
	meta := ranking.Metadata{
		URL:             m["url"],
		Title:           m["title"],
		SourceType:      m["source_type"],
		PublicationDate: m["publication_date"],
		Embedding:       embedding,
	}
	if authors := m["authors"]; authors != "" {
		meta.Authors = strings.Split(authors, ", ")
	}
	return meta
}
