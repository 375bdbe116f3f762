package chunkstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/rankd/internal/config"
	"github.com/fyrsmithlabs/rankd/internal/embeddings"
	"github.com/fyrsmithlabs/rankd/internal/ranking"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.StoreConfig{
		Path:       t.TempDir(),
		Collection: "test_chunks",
	}
	store, err := New(cfg, embeddings.NewHashProvider(64), zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestNewRequiresEmbedder(t *testing.T) {
	cfg := config.StoreConfig{Path: t.TempDir(), Collection: "c"}
	_, err := New(cfg, nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewRequiresCollection(t *testing.T) {
	cfg := config.StoreConfig{Path: t.TempDir()}
	_, err := New(cfg, embeddings.NewHashProvider(64), zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAddEmptyChunks(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Add(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyChunks)
}

func TestAddAndCount(t *testing.T) {
	store := newTestStore(t)

	chunks := []ranking.Chunk{
		{Text: "transformer architectures for sequence modeling"},
		{Text: "convolutional networks for image classification"},
	}
	ids, err := store.Add(context.Background(), chunks)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSearchRoundTrip(t *testing.T) {
	store := newTestStore(t)

	chunks := []ranking.Chunk{
		{
			Text: "attention is all you need",
			Metadata: ranking.Metadata{
				URL:             "https://arxiv.org/abs/1706.03762",
				Title:           "Attention Is All You Need",
				Authors:         []string{"Vaswani", "Shazeer"},
				SourceType:      "paper",
				PublicationDate: "2017-06-12",
			},
		},
		{Text: "gardening tips for spring"},
	}
	_, err := store.Add(context.Background(), chunks)
	require.NoError(t, err)

	results, err := store.Search(context.Background(), "attention is all you need", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "attention is all you need", got.Text)
	assert.Equal(t, "https://arxiv.org/abs/1706.03762", got.Metadata.URL)
	assert.Equal(t, "Attention Is All You Need", got.Metadata.Title)
	assert.Equal(t, []string{"Vaswani", "Shazeer"}, got.Metadata.Authors)
	assert.Equal(t, "paper", got.Metadata.SourceType)
	assert.Equal(t, "2017-06-12", got.Metadata.PublicationDate)
	assert.NotEmpty(t, got.Metadata.Embedding)
}

func TestSearchEmptyQuery(t *testing.T) {
	store := newTestStore(t)
	results, err := store.Search(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyStore(t *testing.T) {
	store := newTestStore(t)
	results, err := store.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLimitClampedToCount(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Add(context.Background(), []ranking.Chunk{
		{Text: "only one chunk"},
	})
	require.NoError(t, err)

	results, err := store.Search(context.Background(), "chunk", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := config.StoreConfig{Path: dir, Collection: "test_chunks"}
	embedder := embeddings.NewHashProvider(64)

	store, err := New(cfg, embedder, zap.NewNop())
	require.NoError(t, err)
	_, err = store.Add(context.Background(), []ranking.Chunk{
		{Text: "persistent chunk"},
	})
	require.NoError(t, err)

	reopened, err := New(cfg, embedder, zap.NewNop())
	require.NoError(t, err)
	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
