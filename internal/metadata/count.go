package metadata

import (
	"bufio"
	"io"
	"unicode"
	"unicode/utf8"

	"dirtally/internal/tree"
)

// CountText scans r as UTF-8 text. Invalid bytes are dropped, "\r\n" and a
// lone "\r" read as "\n". Each line, including a final one without a line
// break, adds one line, its whitespace separated words, and its characters
// including the line break. The counts gathered before a read error are
// returned along with the error.
func CountText(r io.Reader) (tree.Counts, error) {
	var (
		c      tree.Counts
		inWord bool
		inLine bool
		prevCR bool
	)
	br := bufio.NewReader(r)

	endLine := func() {
		c.Lines++
		c.Tokens++
		inWord = false
		inLine = false
	}

	for {
		ch, size, err := br.ReadRune()
		if err != nil {
			if inLine {
				c.Lines++
			}
			if err == io.EOF {
				return c, nil
			}
			return c, err
		}
		if ch == utf8.RuneError && size == 1 {
			continue
		}

		if ch == '\n' && prevCR {
			prevCR = false
			continue
		}
		prevCR = ch == '\r'
		if ch == '\n' || ch == '\r' {
			endLine()
			continue
		}

		inLine = true
		c.Tokens++
		if isWordSeparator(ch) {
			inWord = false
			continue
		}
		if !inWord {
			c.Words++
			inWord = true
		}
	}
}

// isWordSeparator reports Unicode whitespace and the information separators
// U+001C..U+001F.
func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
