package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/dgallion1/booksum/internal/chunker"
	"github.com/dgallion1/booksum/internal/extractor"
	"github.com/dgallion1/booksum/internal/report"
)

// Config controls the summarization run.
type Config struct {
	NumCtx        int
	NumPredict    int
	Temperature   float64
	ChunkFraction float64 // share of the context window reserved for input text
	OverlapTokens int
	Stream        bool // print tokens as they arrive
	StreamMap     bool // stream the per-chunk summaries
	StreamFuse    bool // stream the fusion pass
}

func DefaultConfig() Config {
	return Config{
		NumCtx:        32768,
		NumPredict:    2048,
		Temperature:   0.1,
		ChunkFraction: 0.5,
		OverlapTokens: 200,
		Stream:        true,
		StreamMap:     true,
		StreamFuse:    true,
	}
}

// Titles glued into one long run of letters get sent to the model for repair.
var gluedTitleRe = regexp.MustCompile(`[A-Za-zÁÉÍÓÚÜÑ]{15,}`)

// Summarizer drives the map/reduce summarization of one document into a
// Markdown report.
type Summarizer struct {
	client *Client
	cfg    Config
	log    *slog.Logger
}

func New(client *Client, cfg Config, log *slog.Logger) *Summarizer {
	return &Summarizer{client: client, cfg: cfg, log: log}
}

// Run summarizes every section the extractor yields and appends the results
// to the report at outPath, finishing with the whole-book summary.
func (s *Summarizer) Run(ctx context.Context, ext extractor.Extractor, outPath string) error {
	if err := report.Ensure(outPath); err != nil {
		return fmt.Errorf("prepare report: %w", err)
	}

	processed := 0
	for sec := range ext.Sections() {
		title := sec.Title
		if gluedTitleRe.MatchString(title) {
			title = s.fixTitle(ctx, title)
		}
		title = StripThink(title)

		processed++
		s.log.Info("summarizing chapter", "n", processed, "title", title)
		summary, err := s.summarizeSection(ctx, title, sec.Markdown)
		if err != nil {
			return fmt.Errorf("summarize %q: %w", title, err)
		}
		if err := report.AppendChapterSummary(outPath, title, summary, sec.Level); err != nil {
			return fmt.Errorf("append summary: %w", err)
		}
	}

	if processed == 0 {
		s.log.Info("nothing to summarize, content too short")
		return nil
	}

	if err := s.summarizeBook(ctx, outPath); err != nil {
		return fmt.Errorf("general summary: %w", err)
	}
	s.log.Info("report complete", "path", outPath)
	return nil
}

// summarizeSection maps the section over context-sized chunks and fuses the
// partial summaries when there is more than one.
func (s *Summarizer) summarizeSection(ctx context.Context, title, md string) (string, error) {
	chunks := chunker.Split(md, chunker.Config{
		MaxTokens:     int(float64(s.cfg.NumCtx) * s.cfg.ChunkFraction),
		OverlapTokens: s.cfg.OverlapTokens,
	})

	var partials []string
	for i, ck := range chunks {
		s.log.Info("map", "chunk", i+1, "total", len(chunks))
		out, err := s.chat(ctx, chunkPrompt(title, ck, i+1, len(chunks)), s.cfg.StreamMap)
		if err != nil {
			return "", err
		}
		partials = append(partials, StripThink(out))

		// Small pause keeps a local Ollama from queuing up requests.
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(300 * time.Millisecond):
		}
	}

	if len(partials) == 1 {
		return partials[0], nil
	}

	s.log.Info("fusing partial summaries", "count", len(partials))
	out, err := s.chat(ctx, fusionPrompt(partials), s.cfg.StreamFuse)
	if err != nil {
		return "", err
	}
	return NormalizeParagraphs(StripThink(out)), nil
}

// summarizeBook writes the general summary derived from the per-chapter
// section of the report. A report with no chapter summaries is left as is.
func (s *Summarizer) summarizeBook(ctx context.Context, outPath string) error {
	sectionText, err := report.ChapterSummaries(outPath)
	if err != nil {
		return err
	}
	if sectionText == "" {
		return nil
	}
	out, err := s.chat(ctx, generalPrompt(sectionText), s.cfg.Stream)
	if err != nil {
		return err
	}
	return report.WriteGeneralSummary(outPath, NormalizeParagraphs(StripThink(out)))
}

// fixTitle asks the model to reinsert spaces and fix capitalization in a
// glued title. On failure the original title is kept.
func (s *Summarizer) fixTitle(ctx context.Context, bad string) string {
	out, err := s.chat(ctx, fixTitlePrompt(bad), false)
	if err != nil || out == "" {
		s.log.Warn("title repair failed, keeping original", "title", bad)
		return bad
	}
	return out
}

// chat calls the model with the shared system prompt, retrying transient
// failures with backoff.
func (s *Summarizer) chat(ctx context.Context, prompt string, stream bool) (string, error) {
	var onToken func(string)
	if stream && s.cfg.Stream {
		onToken = func(tok string) { fmt.Print(tok) }
	}

	opts := Options{
		NumCtx:      s.cfg.NumCtx,
		NumPredict:  s.cfg.NumPredict,
		Temperature: s.cfg.Temperature,
	}

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := Backoff(attempt - 1)
			s.log.Warn("retrying model call", "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		out, err := s.client.Chat(ctx, systemPrompt, prompt, opts, stream, onToken)
		if err == nil {
			if onToken != nil {
				fmt.Println()
			}
			return out, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("model call failed after %d retries: %w", MaxRetries, lastErr)
}
