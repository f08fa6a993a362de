package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"honk/domain"
)

// Selection is a span of text picked in a file. Lines are 1-based.
type Selection struct {
	EndLine   int
	Path      string
	StartLine int
	Text      string
}

// MultiLine reports whether the selection spans more than one line
func (s Selection) MultiLine() bool {
	return s.StartLine != s.EndLine
}

// Initial returns the orientation prompt sent once the agent has started
func Initial(openFilesPath, unsavedFilesPath string) string {
	return fmt.Sprintf("Please take a look in the current directory to orient yourself for the type of project this is. "+
		"If you need to know what files the user has open, please look in %s, which is kept up to date with whatever the user has open in their editor. "+
		"%s has a list of files which are not saved, so check with the user if you need to edit one of those files. "+
		"Provide a brief summary of things with a welcome message, but be brief. No need to open each file yet.",
		openFilesPath, unsavedFilesPath)
}

// Question turns a user question into the text sent to the agent. A selection
// spanning several lines is inlined, flattened onto one line; otherwise the
// question is sent as typed.
func Question(question string, sel *Selection) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.ErrEmptyQuestion
	}

	if sel == nil || !sel.MultiLine() {
		return question, nil
	}

	text := strings.ReplaceAll(sel.Text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return fmt.Sprintf("Question %s regarding selected text: %s (from lines %d-%d in file %s)",
		question, text, sel.StartLine, sel.EndLine, sel.Path), nil
}

// ParseLineRange parses "start-end" or a single line number into 1-based lines
func ParseLineRange(lines string) (start, end int, err error) {
	lines = strings.TrimSpace(lines)
	if lines == "" {
		return 0, 0, fmt.Errorf("empty line range")
	}

	first, last, found := strings.Cut(lines, "-")
	if start, err = strconv.Atoi(strings.TrimSpace(first)); err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q: %w", lines, err)
	}
	end = start
	if found {
		if end, err = strconv.Atoi(strings.TrimSpace(last)); err != nil {
			return 0, 0, fmt.Errorf("invalid line range %q: %w", lines, err)
		}
	}

	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid line range %q", lines)
	}
	return start, end, nil
}

// LoadSelection reads lines start..end (inclusive, 1-based) of the file at path
func LoadSelection(path string, start, end int) (*Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	if start > len(lines) {
		return nil, fmt.Errorf("line %d is past the end of %s (%d lines)", start, path, len(lines))
	}
	if end > len(lines) {
		end = len(lines)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &Selection{
		EndLine:   end,
		Path:      abs,
		StartLine: start,
		Text:      strings.Join(lines[start-1:end], "\n"),
	}, nil
}
