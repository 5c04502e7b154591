package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dgallion1/booksum/internal/extractor"
	"github.com/dgallion1/booksum/internal/summarize"
)

type Config struct {
	// Ollama connection
	OllamaURL string
	Model     string

	// Model options
	NumCtx      int
	NumPredict  int
	Temperature float64

	// Chunking
	ChunkFraction float64
	OverlapTokens int

	// Streaming
	Stream     bool
	StreamMap  bool
	StreamFuse bool

	// Section extraction
	MinSectionWords    int
	MinSubchapterPages int
	MinSubchapterWords int
	MinOutlineScore    int
}

func Load() Config {
	cfg := Config{
		OllamaURL: envOr("OLLAMA_URL", "http://localhost:11434"),
		Model:     envOr("MODEL", "qwen3:14b"),

		NumCtx:      envInt("NUM_CTX", 32768),
		NumPredict:  envInt("NUM_PREDICT", 2048),
		Temperature: envFloat("TEMPERATURE", 0.1),

		ChunkFraction: envFloat("CHUNK_FRACTION", 0.5),
		OverlapTokens: envInt("OVERLAP_TOKENS", 200),

		Stream:     envBool("STREAM", true),
		StreamMap:  envBool("STREAM_MAP", true),
		StreamFuse: envBool("STREAM_FUSE", true),

		MinSectionWords:    envInt("MIN_SECTION_WORDS", 60),
		MinSubchapterPages: envInt("MIN_SUBCHAPTER_PAGES", 3),
		MinSubchapterWords: envInt("MIN_SUBCHAPTER_WORDS", 800),
		MinOutlineScore:    envInt("MIN_OUTLINE_SCORE", 4),
	}

	if cfg.NumCtx <= 0 {
		cfg.NumCtx = 32768
	}
	if cfg.NumPredict <= 0 {
		cfg.NumPredict = 2048
	}
	if cfg.ChunkFraction <= 0 || cfg.ChunkFraction > 1 {
		cfg.ChunkFraction = 0.5
	}
	if cfg.OverlapTokens < 0 {
		cfg.OverlapTokens = 200
	}
	if cfg.MinSectionWords <= 0 {
		cfg.MinSectionWords = 60
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL is required")
	}
	if c.Model == "" {
		return fmt.Errorf("MODEL is required")
	}
	return nil
}

// Extractor returns the section-extraction settings.
func (c Config) Extractor() extractor.Config {
	ec := extractor.DefaultConfig()
	ec.MinSectionWords = c.MinSectionWords
	ec.MinSubchapterPages = c.MinSubchapterPages
	ec.MinSubchapterWords = c.MinSubchapterWords
	ec.MinOutlineScore = c.MinOutlineScore
	return ec
}

// Summarizer returns the summarization settings.
func (c Config) Summarizer() summarize.Config {
	return summarize.Config{
		NumCtx:        c.NumCtx,
		NumPredict:    c.NumPredict,
		Temperature:   c.Temperature,
		ChunkFraction: c.ChunkFraction,
		OverlapTokens: c.OverlapTokens,
		Stream:        c.Stream,
		StreamMap:     c.StreamMap,
		StreamFuse:    c.StreamFuse,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
