package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"honk/logging"

	"github.com/gofrs/flock"
)

const (
	OpenFilesName    = "honk_open_files.txt"
	UnsavedFilesName = "honk_unsaved_files.txt"
	lockName         = "honk_context.lock"
)

// Tracker maintains the context files the agent reads to learn which files
// the user has open and which have unsaved changes
type Tracker struct {
	dir string
}

// NewTracker creates a tracker writing into dir, or the OS temp dir when dir is empty
func NewTracker(dir string) *Tracker {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Tracker{dir: dir}
}

// OpenFilesPath returns the path of the open files list
func (t *Tracker) OpenFilesPath() string {
	return filepath.Join(t.dir, OpenFilesName)
}

// UnsavedFilesPath returns the path of the unsaved files list
func (t *Tracker) UnsavedFilesPath() string {
	return filepath.Join(t.dir, UnsavedFilesName)
}

// Update rewrites both context files. Git-internal documents are left out.
func (t *Tracker) Update(open, unsaved []string) error {
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return fmt.Errorf("failed to create context directory: %w", err)
	}

	lock := flock.New(filepath.Join(t.dir, lockName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire context lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	open = filterDocuments(open)
	unsaved = filterDocuments(unsaved)

	if err := os.WriteFile(t.OpenFilesPath(), []byte(strings.Join(open, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write open files: %w", err)
	}
	if err := os.WriteFile(t.UnsavedFilesPath(), []byte(strings.Join(unsaved, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write unsaved files: %w", err)
	}

	logging.Logger.Debug("Context files updated", "open", len(open), "unsaved", len(unsaved), "dir", t.dir)
	return nil
}

// Ensure creates any missing context file empty, leaving existing lists untouched
func (t *Tracker) Ensure() error {
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return fmt.Errorf("failed to create context directory: %w", err)
	}

	lock := flock.New(filepath.Join(t.dir, lockName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire context lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	for _, path := range []string{t.OpenFilesPath(), t.UnsavedFilesPath()} {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
		}
		file.Close()
	}
	return nil
}

// Read returns the current contents of both context files. Missing files read as empty.
func (t *Tracker) Read() (open, unsaved []string, err error) {
	lock := flock.New(filepath.Join(t.dir, lockName))
	if err := lock.RLock(); err != nil {
		return nil, nil, fmt.Errorf("failed to acquire context lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	open, err = readList(t.OpenFilesPath())
	if err != nil {
		return nil, nil, err
	}
	unsaved, err = readList(t.UnsavedFilesPath())
	if err != nil {
		return nil, nil, err
	}
	return open, unsaved, nil
}

func readList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return splitLines(string(data)), nil
}

func splitLines(s string) []string {
	result := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result
}

// filterDocuments drops blank names and git-internal documents
func filterDocuments(names []string) []string {
	result := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || isGitDocument(name) {
			continue
		}
		result = append(result, name)
	}
	return result
}

func isGitDocument(name string) bool {
	return strings.HasPrefix(name, "git") || strings.HasSuffix(name, ".git")
}
