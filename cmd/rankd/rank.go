package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/rankd/internal/ranking"
)

var (
	chunksPath string
	topN       int
)

var rankCmd = &cobra.Command{
	Use:   "rank <query>",
	Short: "Rank chunks from a JSON file against a query",
	Long: `Rank content chunks against a query and print the ranked result as JSON.

Chunks are read as a JSON array of {"text": ..., "metadata": {...}} objects
from the --chunks file, or from stdin when the file is "-".

Examples:
  # Rank chunks from a file
  rankd rank "transformer architectures" --chunks chunks.json

  # Rank chunks from stdin, keep the top 5
  cat chunks.json | rankd rank "transformer architectures" --chunks - --top-n 5`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&chunksPath, "chunks", "", "JSON file with chunks to rank, or - for stdin")
	rankCmd.Flags().IntVar(&topN, "top-n", 0, "number of results to return (default from config)")
	_ = rankCmd.MarkFlagRequired("chunks")
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	chunks, err := readChunks(chunksPath)
	if err != nil {
		return err
	}

	engine, err := ranking.NewEngine(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close() //nolint:errcheck

	ctx := cmd.Context()
	query := engine.ProcessQuery(ctx, args[0])
	result := engine.ProcessAndRank(ctx, query, chunks, topN)

	return printJSON(result)
}

// readChunks loads a JSON array of chunks from a file or stdin.
func readChunks(path string) ([]ranking.Chunk, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}

	var chunks []ranking.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parsing chunks: %w", err)
	}
	return chunks, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
