package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment provides an isolated test environment with its own HONK_HOME.
type TestEnvironment struct {
	ContextDir string
	HonkHome   string
	WorkDir    string
	extraEnv   map[string]string
	tb         testing.TB
}

// NewTestEnvironment creates an isolated test environment with a temp HONK_HOME.
// The temp directories are automatically cleaned up when the test completes.
func NewTestEnvironment(tb testing.TB) *TestEnvironment {
	tb.Helper()

	root := tb.TempDir()
	env := &TestEnvironment{
		ContextDir: filepath.Join(root, "context"),
		HonkHome:   filepath.Join(root, "home"),
		WorkDir:    filepath.Join(root, "work"),
		extraEnv:   make(map[string]string),
		tb:         tb,
	}

	for _, dir := range []string{env.ContextDir, env.HonkHome, env.WorkDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			tb.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return env
}

// Environ returns environment variables configured for test isolation.
// It filters out HONK_* variables and sets:
//   - HONK_HOME to the temp home directory
//   - HONK_CONTEXT_DIR to the temp context directory
//   - HONK_DEBUG to empty string (disables debug logging)
func (e *TestEnvironment) Environ() []string {
	env := make([]string, 0, len(os.Environ())+3+len(e.extraEnv))

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "HONK_") {
			continue
		}
		if _, overridden := e.extraEnv[key]; overridden {
			continue
		}
		env = append(env, kv)
	}

	env = append(env,
		"HONK_HOME="+e.HonkHome,
		"HONK_CONTEXT_DIR="+e.ContextDir,
		"HONK_DEBUG=",
	)

	for k, v := range e.extraEnv {
		env = append(env, k+"="+v)
	}

	return env
}

// DBPath returns the path to the test run history.
func (e *TestEnvironment) DBPath() string {
	return filepath.Join(e.HonkHome, "history.db")
}

// SetEnv sets an additional environment variable for this test environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	if e.extraEnv == nil {
		e.extraEnv = make(map[string]string)
	}
	e.extraEnv[key] = value
}

// WriteSettings writes settings.json into HONK_HOME.
func (e *TestEnvironment) WriteSettings(content string) {
	e.tb.Helper()
	path := filepath.Join(e.HonkHome, "settings.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.tb.Fatalf("Failed to write settings: %v", err)
	}
}

// WriteFile writes a file under the working directory and returns its path.
func (e *TestEnvironment) WriteFile(name, content string) string {
	e.tb.Helper()
	path := filepath.Join(e.WorkDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.tb.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
