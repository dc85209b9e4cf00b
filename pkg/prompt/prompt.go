package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"bikeshare/pkg/metrics"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInputClosed is returned once the input stream is exhausted.
var ErrInputClosed = errors.New("input closed")

// Normalizer maps a raw answer onto the form the allowed values use.
type Normalizer func(string) string

// Lower lowercases answers, used for cities and yes/no questions.
func Lower(s string) string {
	return strings.ToLower(s)
}

var titleCaser = cases.Title(language.English)

// Title upper-cases the first letter and lowercases the rest ("jUNE" -> "June").
func Title(s string) string {
	return titleCaser.String(s)
}

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints question on its own line and returns the next answer with
// surrounding whitespace removed.
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "\n%s\n", question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		// A final line without a newline still counts
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if !errors.Is(err, io.EOF) {
			slog.Debug("Input read failed", "error", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(line), nil
}

// Choose asks question until the normalized answer is one of allowed. Every
// rejected answer re-prompts with retry. name labels the prompt in metrics.
func (p *Prompter) Choose(ctx context.Context, name, question, retry string, normalize Normalizer, allowed []string) (string, error) {
	ask := question
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		answer, err := p.Ask(ask)
		if err != nil {
			return "", err
		}
		if normalize != nil {
			answer = normalize(answer)
		}
		if slices.Contains(allowed, answer) {
			return answer, nil
		}

		slog.Debug("Rejected answer", "prompt", name, "answer", answer)
		metrics.RecordPromptRetry(ctx, name)
		ask = retry
	}
}

// ChooseIndex asks question until the answer is an integer within
// [min, max]. Non-numeric answers re-prompt like out-of-range ones.
func (p *Prompter) ChooseIndex(ctx context.Context, name, question, retry string, min, max int) (int, error) {
	ask := question
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		answer, err := p.Ask(ask)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= min && n <= max {
			return n, nil
		}

		slog.Debug("Rejected answer", "prompt", name, "answer", answer)
		metrics.RecordPromptRetry(ctx, name)
		ask = retry
	}
}

// Confirm asks a yes/no question and reports whether the answer was "yes",
// case-insensitively. Any other answer is a no.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question)
	if err != nil {
		return false, err
	}
	return Lower(answer) == "yes", nil
}
