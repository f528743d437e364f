package metadata

import (
	"errors"
	"io"
	"strings"
	"testing"

	"dirtally/internal/tree"
)

func TestCountText(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  tree.Counts
	}{
		{"empty", "", tree.Counts{}},
		{"three lines five words", "one two\nthree\nfour five\n", tree.Counts{Lines: 3, Words: 5, Tokens: 24}},
		{"no trailing newline", "a b\nc", tree.Counts{Lines: 2, Words: 3, Tokens: 5}},
		{"blank lines", "\n\n", tree.Counts{Lines: 2, Words: 0, Tokens: 2}},
		{"crlf is one character", "ab\r\ncd\r\n", tree.Counts{Lines: 2, Words: 2, Tokens: 6}},
		{"lone carriage return", "ab\rcd", tree.Counts{Lines: 2, Words: 2, Tokens: 5}},
		{"tabs and spaces", "\tx  y\t\n", tree.Counts{Lines: 1, Words: 2, Tokens: 7}},
		{"multibyte characters", "héllo wörld\n", tree.Counts{Lines: 1, Words: 2, Tokens: 12}},
		{"invalid bytes skipped", "a\xffb c\n", tree.Counts{Lines: 1, Words: 2, Tokens: 5}},
		{"whitespace only line", "   ", tree.Counts{Lines: 1, Words: 0, Tokens: 3}},
		{"information separators split words", "a\x1cb\x1fc\n", tree.Counts{Lines: 1, Words: 3, Tokens: 6}},
		{"no-break space splits words", "a\u00a0b\n", tree.Counts{Lines: 1, Words: 2, Tokens: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CountText(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("CountText failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

type failingReader struct {
	data string
	done bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errors.New("disk on fire")
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestCountText_PartialRead(t *testing.T) {
	got, err := CountText(&failingReader{data: "one two\nthr"})
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("Expected read error, got %v", err)
	}
	want := tree.Counts{Lines: 2, Words: 3, Tokens: 11}
	if got != want {
		t.Errorf("Expected partial counts %v, got %v", want, got)
	}
}
