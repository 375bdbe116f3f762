package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/rankd/internal/chunkstore"
	"github.com/fyrsmithlabs/rankd/internal/config"
	"github.com/fyrsmithlabs/rankd/internal/embeddings"
	"github.com/fyrsmithlabs/rankd/internal/ranking"
)

var searchLimit int

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local chunk store",
}

var storeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Ingest chunks from a JSON file into the store",
	Long: `Ingest content chunks into the local vector store.

Chunks are read as a JSON array of {"text": ..., "metadata": {...}} objects
from the --chunks file, or from stdin when the file is "-".

Examples:
  rankd store add --chunks chunks.json
  cat chunks.json | rankd store add --chunks -`,
	RunE: runStoreAdd,
}

var storeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Retrieve stored chunks semantically close to a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreSearch,
}

var storeRankCmd = &cobra.Command{
	Use:   "rank <query>",
	Short: "Retrieve stored chunks and rank them against a query",
	Long: `Run the full pipeline against stored chunks: retrieve candidates from
the vector store, then rank them by fused semantic, authority, recency
and quality signals.

Examples:
  rankd store rank "transformer architectures" --top-n 5`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreRank,
}

func init() {
	storeAddCmd.Flags().StringVar(&chunksPath, "chunks", "", "JSON file with chunks to ingest, or - for stdin")
	_ = storeAddCmd.MarkFlagRequired("chunks")
	storeSearchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum results to return")
	storeRankCmd.Flags().IntVar(&searchLimit, "limit", 50, "candidates to retrieve before ranking")
	storeRankCmd.Flags().IntVar(&topN, "top-n", 0, "number of results to return (default from config)")
	storeCmd.AddCommand(storeAddCmd)
	storeCmd.AddCommand(storeSearchCmd)
	storeCmd.AddCommand(storeRankCmd)
}

// openStore builds the chunk store with its own embedding provider.
func openStore(cfg *config.Config, logger *zap.Logger) (*chunkstore.Store, embeddings.Provider, error) {
	embedder, err := embeddings.NewProvider(embeddings.ProviderConfig{
		Provider:  cfg.Embeddings.Provider,
		Model:     cfg.Embeddings.Model,
		BaseURL:   cfg.Embeddings.BaseURL,
		APIKey:    cfg.Embeddings.APIKey,
		Dimension: cfg.Embeddings.Dimension,
		CacheDir:  cfg.Embeddings.CacheDir,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedding provider: %w", err)
	}

	store, err := chunkstore.New(cfg.Store, embedder, logger)
	if err != nil {
		embedder.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return store, embedder, nil
}

func runStoreAdd(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	chunks, err := readChunks(chunksPath)
	if err != nil {
		return err
	}

	store, embedder, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	ids, err := store.Add(cmd.Context(), chunks)
	if err != nil {
		return err
	}
	fmt.Printf("added %d chunks\n", len(ids))
	return nil
}

func runStoreSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, embedder, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	chunks, err := store.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return err
	}
	return printJSON(chunks)
}

func runStoreRank(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, embedder, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	ctx := cmd.Context()
	chunks, err := store.Search(ctx, args[0], searchLimit)
	if err != nil {
		return err
	}

	// The engine shares the store's embedder so query embeddings are
	// computed once per process.
	engine, err := ranking.NewEngine(cfg, logger, ranking.WithEmbedder(embedder))
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close() //nolint:errcheck

	query := engine.ProcessQuery(ctx, args[0])
	result := engine.ProcessAndRank(ctx, query, chunks, topN)
	return printJSON(result)
}
