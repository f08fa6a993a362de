package ui

import "strings"

// scrollback holds agent output, keeping at most limit complete lines.
// A limit <= 0 keeps everything.
type scrollback struct {
	content string
	limit   int
}

func newScrollback(limit int) *scrollback {
	return &scrollback{limit: limit}
}

// Write appends an output chunk. Chunks may split lines anywhere.
func (s *scrollback) Write(chunk string) {
	chunk = strings.ReplaceAll(chunk, "\r\n", "\n")
	if strings.HasSuffix(s.content, "\r") && strings.HasPrefix(chunk, "\n") {
		s.content = s.content[:len(s.content)-1]
	}
	s.content += chunk
	s.trim()
}

// Line appends text on a line of its own
func (s *scrollback) Line(text string) {
	if s.content != "" && !strings.HasSuffix(s.content, "\n") {
		s.content += "\n"
	}
	s.content += text + "\n"
	s.trim()
}

func (s *scrollback) trim() {
	if s.limit <= 0 {
		return
	}
	excess := strings.Count(s.content, "\n") - s.limit
	if excess <= 0 {
		return
	}

	idx := 0
	for i := 0; i < excess; i++ {
		idx += strings.IndexByte(s.content[idx:], '\n') + 1
	}
	s.content = s.content[idx:]
}

func (s *scrollback) String() string {
	return s.content
}
