package section

import "testing"

func TestSpanPages(t *testing.T) {
	tests := []struct {
		span Span
		want int
	}{
		{Span{StartPage: 0, EndPage: 10}, 10},
		{Span{StartPage: 5, EndPage: 5}, 0},
		{Span{StartPage: 8, EndPage: 3}, 0},
	}
	for _, tt := range tests {
		if got := tt.span.Pages(); got != tt.want {
			t.Errorf("Pages() for [%d,%d) = %d, want %d", tt.span.StartPage, tt.span.EndPage, got, tt.want)
		}
	}
}

func TestRawLooksHTML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"html document", "<html><body><p>hola</p></body></html>", true},
		{"plain text", "Texto normal de un capítulo.", false},
		{"comparison sign only", "El valor 2 < 3 se cumple siempre.", false},
		{"empty", "", false},
		{"late opening tag", string(make([]byte, 300)) + "<p>tarde</p>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Raw{Body: tt.body}).LooksHTML(); got != tt.want {
				t.Errorf("LooksHTML() = %v, want %v", got, tt.want)
			}
		})
	}
}
