package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.OllamaURL != "http://localhost:11434" {
		t.Errorf("OllamaURL = %q", cfg.OllamaURL)
	}
	if cfg.Model != "qwen3:14b" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.NumCtx != 32768 {
		t.Errorf("NumCtx = %d", cfg.NumCtx)
	}
	if cfg.ChunkFraction != 0.5 {
		t.Errorf("ChunkFraction = %v", cfg.ChunkFraction)
	}
	if !cfg.Stream {
		t.Error("Stream should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OLLAMA_URL", "http://gpu-box:11434")
	t.Setenv("MODEL", "llama3:8b")
	t.Setenv("NUM_CTX", "8192")
	t.Setenv("TEMPERATURE", "0.7")
	t.Setenv("STREAM", "false")
	t.Setenv("MIN_SECTION_WORDS", "30")

	cfg := Load()
	if cfg.OllamaURL != "http://gpu-box:11434" {
		t.Errorf("OllamaURL = %q", cfg.OllamaURL)
	}
	if cfg.Model != "llama3:8b" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.NumCtx != 8192 {
		t.Errorf("NumCtx = %d", cfg.NumCtx)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.Stream {
		t.Error("Stream override ignored")
	}
	if cfg.MinSectionWords != 30 {
		t.Errorf("MinSectionWords = %d", cfg.MinSectionWords)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("NUM_CTX", "-1")
	t.Setenv("CHUNK_FRACTION", "3.0")

	cfg := Load()
	if cfg.NumCtx != 32768 {
		t.Errorf("NumCtx = %d, want default restored", cfg.NumCtx)
	}
	if cfg.ChunkFraction != 0.5 {
		t.Errorf("ChunkFraction = %v, want default restored", cfg.ChunkFraction)
	}
}

func TestExtractorMapping(t *testing.T) {
	t.Setenv("MIN_OUTLINE_SCORE", "5")
	cfg := Load()
	ec := cfg.Extractor()
	if ec.MinOutlineScore != 5 {
		t.Errorf("MinOutlineScore = %d", ec.MinOutlineScore)
	}
	if ec.MinSubchapterRatio != 0.25 {
		t.Errorf("MinSubchapterRatio = %v, want default carried", ec.MinSubchapterRatio)
	}
}
