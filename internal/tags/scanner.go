package tags

import "strings"

// tagToken is one recognized /x span in free text. A tag starts at a slash
// followed by a single letter; the letter must be followed by end of string,
// another slash, or whitespace. The value, when present, runs to the next
// slash or end of string.
type tagToken struct {
	letter byte
	value  string
	start  int
	end    int
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// scanTags extracts every tag-shaped span from text. Recognition is purely
// syntactic; callers decide which letters mean anything and which spans get
// consumed.
func scanTags(text string) []tagToken {
	var tokens []tagToken
	i := 0
	for i < len(text) {
		if text[i] != '/' {
			i++
			continue
		}
		if i+1 >= len(text) || !isLetter(text[i+1]) {
			i++
			continue
		}
		// The letter must terminate the token or be separated from the
		// value by whitespace: "/done" is free text, "/d one" is a tag.
		if i+2 < len(text) && text[i+2] != '/' && !isSpace(text[i+2]) {
			i += 2
			continue
		}

		end := len(text)
		if next := strings.IndexByte(text[i+1:], '/'); next >= 0 {
			end = i + 1 + next
		}
		value := strings.TrimSpace(text[i+2:end])
		tokens = append(tokens, tagToken{
			letter: lower(text[i+1]),
			value:  value,
			start:  i,
			end:    end,
		})
		i = end
	}
	return tokens
}

// stripSpans removes the given [start,end) spans from text and collapses the
// remaining whitespace.
func stripSpans(text string, spans []tagToken) string {
	if len(spans) == 0 {
		return collapseSpace(text)
	}
	var b strings.Builder
	prev := 0
	for _, span := range spans {
		if span.start > prev {
			b.WriteString(text[prev:span.start])
		}
		b.WriteByte(' ')
		prev = span.end
	}
	if prev < len(text) {
		b.WriteString(text[prev:])
	}
	return collapseSpace(b.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitWords returns the whitespace-separated words of s along with the byte
// offset just past each word. The offsets let a caller consume only a prefix
// of a tag value, leaving the rest as free text.
func splitWords(s string) (words []string, ends []int) {
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		start := i
		for i < len(s) && !isSpace(s[i]) {
			i++
		}
		if i > start {
			words = append(words, s[start:i])
			ends = append(ends, i)
		}
	}
	return words, ends
}
