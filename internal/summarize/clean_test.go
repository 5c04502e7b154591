package summarize

import (
	"strings"
	"testing"
)

func TestStripThink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no tags", "Resumen limpio.", "Resumen limpio."},
		{"single block", "<think>pensando...</think>Resumen.", "Resumen."},
		{"multiline block", "<think>línea 1\nlínea 2</think>\nResumen.", "Resumen."},
		{"case insensitive", "<THINK>x</THINK>Resumen.", "Resumen."},
		{"multiple blocks", "<think>a</think>Uno.<think>b</think> Dos.", "Uno. Dos."},
		{"only tags", "<think>todo era pensamiento</think>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripThink(tt.in); got != tt.want {
				t.Errorf("StripThink(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeParagraphs(t *testing.T) {
	t.Run("existing paragraphs untouched", func(t *testing.T) {
		in := "Primer párrafo.\n\nSegundo párrafo."
		if got := NormalizeParagraphs(in); got != in {
			t.Errorf("NormalizeParagraphs() = %q, want input unchanged", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := NormalizeParagraphs("   "); got != "" {
			t.Errorf("NormalizeParagraphs(blank) = %q, want empty", got)
		}
	})

	t.Run("short run stays single paragraph", func(t *testing.T) {
		in := "Una frase. Otra frase. Y otra más."
		got := NormalizeParagraphs(in)
		if strings.Contains(got, "\n\n") {
			t.Errorf("NormalizeParagraphs() split a short text: %q", got)
		}
	})

	t.Run("long run grouped into paragraphs", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 10; i++ {
			sb.WriteString("Esta es una frase completa. ")
		}
		got := NormalizeParagraphs(strings.TrimSpace(sb.String()))
		paras := strings.Split(got, "\n\n")
		if len(paras) != 2 {
			t.Fatalf("NormalizeParagraphs() = %d paragraphs, want 2: %q", len(paras), got)
		}
	})

	t.Run("leftover merged into previous", func(t *testing.T) {
		// Six sentences: five fill a paragraph and the stray sixth joins it
		// rather than standing alone.
		var sb strings.Builder
		for i := 0; i < 6; i++ {
			sb.WriteString("Frase número tal. ")
		}
		got := NormalizeParagraphs(strings.TrimSpace(sb.String()))
		if strings.Contains(got, "\n\n") {
			t.Errorf("NormalizeParagraphs() left a dangling paragraph: %q", got)
		}
	})
}
