// Command copilot is a retrieval-augmented document question answering CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/config/file"
	convmemory "github.com/custodia-labs/copilot-cli/internal/adapters/driven/convstore/memory"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/filewatcher"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/generator/fallback"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/generator/gemini"
	idxmemory "github.com/custodia-labs/copilot-cli/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driven/index/qdrantindex"
	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/copilot-cli/internal/chunker"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/services"
	"github.com/custodia-labs/copilot-cli/internal/extractors"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; environment variables win over the config file.
	_ = godotenv.Load()

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ck, err := chunker.New(
		chunker.WithChunkSize(intSetting(cfg, "chunk_size", chunker.DefaultChunkSize)),
		chunker.WithOverlap(intSetting(cfg, "chunk_overlap", chunker.DefaultChunkOverlap)),
	)
	if err != nil {
		return fmt.Errorf("chunker config: %w", err)
	}

	registry := extractors.Defaults()
	index := buildIndex(cfg)
	defer index.Close()

	agentOpts := []services.AgentOption{}
	if topK := cfg.GetInt("top_k"); topK > 0 {
		agentOpts = append(agentOpts, services.WithTopK(topK))
	}
	if generator := buildGenerator(cfg); generator != nil {
		agentOpts = append(agentOpts, services.WithGenerator(generator))
	}

	agent := services.NewAgentService(index, convmemory.New(), fallback.New(), agentOpts...)
	ingest := services.NewIngestService(registry, ck, index)

	watcher, err := filewatcher.New(registry.Extensions())
	if err != nil {
		return fmt.Errorf("file watcher: %w", err)
	}
	defer watcher.Close()

	return cli.Execute(cli.Deps{
		Query:   agent,
		Ingest:  ingest,
		Watcher: watcher,
		Version: version,
	})
}

// buildIndex prefers the Qdrant vector index when an embedder is available
// and Qdrant is reachable, degrading to the in-process lexical index
// otherwise. Startup never fails on a missing backend.
func buildIndex(cfg driven.ConfigStore) driven.RetrievalIndex {
	embedder := buildEmbedder(cfg)
	if embedder == nil {
		logger.Warn("No embedding backend configured; using in-process retrieval index")
		return idxmemory.New()
	}

	qdrant, err := qdrantindex.New(context.Background(), qdrantindex.Config{
		Host:     cfg.GetString("qdrant_host"),
		Port:     cfg.GetInt("qdrant_port"),
		Embedder: embedder,
	})
	if err != nil {
		logger.Warn("Qdrant unavailable (%v); using in-process retrieval index", err)
		embedder.Close()
		return idxmemory.New()
	}
	return qdrant
}

// buildEmbedder picks OpenAI when a key is configured, then a local Ollama
// instance when one is named in the config, else nil.
func buildEmbedder(cfg driven.ConfigStore) driven.EmbeddingService {
	if key := cfg.GetString("openai_api_key"); key != "" {
		embedder, err := openai.NewEmbeddingService(openai.Config{APIKey: key})
		if err == nil {
			return embedder
		}
		logger.Warn("OpenAI embedding unavailable: %v", err)
	}

	if host := cfg.GetString("ollama_host"); host != "" {
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: host,
			Model:   cfg.GetString("ollama_embed_model"),
		})
	}
	return nil
}

// buildGenerator returns the Gemini backend when a key is configured, nil
// otherwise. With no backend every question is served by the fallback.
func buildGenerator(cfg driven.ConfigStore) driven.AnswerGenerator {
	key := cfg.GetString("gemini_api_key")
	if key == "" {
		logger.Warn("No Gemini API key; answers use the deterministic fallback")
		return nil
	}

	generator, err := gemini.New(gemini.Config{APIKey: key})
	if err != nil {
		logger.Warn("Gemini unavailable (%v); answers use the deterministic fallback", err)
		return nil
	}
	return generator
}

func intSetting(cfg driven.ConfigStore, key string, def int) int {
	if v := cfg.GetInt(key); v > 0 {
		return v
	}
	return def
}
