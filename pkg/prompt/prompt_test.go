package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestAsk(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"trims newline", "chicago\n", "chicago", nil},
		{"trims carriage return", "new york\r\n", "new york", nil},
		{"last line without newline", "yes", "yes", nil},
		{"closed input", "", "", ErrInputClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := New(strings.NewReader(tt.input), &out).Ask("Question?")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Ask() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Ask() = %q, want %q", got, tt.want)
			}
			if out.String() != "\nQuestion?\n" {
				t.Errorf("prompt output = %q", out.String())
			}
		})
	}
}

func TestChoose(t *testing.T) {
	cities := []string{"chicago", "new york", "washington"}

	var out bytes.Buffer
	p := New(strings.NewReader("boston\n\nNEW YORK\n"), &out)

	got, err := p.Choose(context.Background(), "city", "Which city?", "Invalid city.", Lower, cities)
	if err != nil {
		t.Fatalf("Choose() error: %v", err)
	}
	if got != "new york" {
		t.Errorf("Choose() = %q, want %q", got, "new york")
	}

	if n := strings.Count(out.String(), "Which city?"); n != 1 {
		t.Errorf("question printed %d times, want 1", n)
	}
	if n := strings.Count(out.String(), "Invalid city."); n != 2 {
		t.Errorf("retry printed %d times, want 2", n)
	}
}

func TestChoose_TitleCase(t *testing.T) {
	months := []string{"January", "February", "March", "April", "May", "June"}
	p := New(strings.NewReader("july\njUNE\n"), &bytes.Buffer{})

	got, err := p.Choose(context.Background(), "month", "Which month?", "Invalid month.", Title, months)
	if err != nil {
		t.Fatalf("Choose() error: %v", err)
	}
	if got != "June" {
		t.Errorf("Choose() = %q, want June", got)
	}
}

func TestChoose_InputClosed(t *testing.T) {
	p := New(strings.NewReader("nope\n"), &bytes.Buffer{})

	_, err := p.Choose(context.Background(), "mode", "Filter?", "Invalid filter.", Lower, []string{"none"})
	if !errors.Is(err, ErrInputClosed) {
		t.Errorf("Choose() error = %v, want ErrInputClosed", err)
	}
}

func TestChoose_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(strings.NewReader("none\n"), &bytes.Buffer{})
	_, err := p.Choose(ctx, "mode", "Filter?", "Invalid filter.", Lower, []string{"none"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Choose() error = %v, want context.Canceled", err)
	}
}

func TestChooseIndex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		retries int
	}{
		{"valid first try", "1\n", 1, 0},
		{"out of range then valid", "0\n8\n7\n", 7, 2},
		{"non numeric re-prompts", "monday\n2.5\n3\n", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			got, err := p.ChooseIndex(context.Background(), "day", "Which day?", "Invalid day.", 1, 7)
			if err != nil {
				t.Fatalf("ChooseIndex() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ChooseIndex() = %d, want %d", got, tt.want)
			}
			if n := strings.Count(out.String(), "Invalid day."); n != tt.retries {
				t.Errorf("retry printed %d times, want %d", n, tt.retries)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{
		"yes\n":  true,
		"YES\n":  true,
		"Yes\n":  true,
		"no\n":   false,
		"\n":     false,
		"quit\n": false,
		"y\n":    false,
	}

	for input, want := range tests {
		got, err := New(strings.NewReader(input), &bytes.Buffer{}).Confirm("Restart?")
		if err != nil {
			t.Fatalf("Confirm(%q) error: %v", input, err)
		}
		if got != want {
			t.Errorf("Confirm(%q) = %v, want %v", input, got, want)
		}
	}
}
