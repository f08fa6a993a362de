package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"honk/test/integration/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, env *harness.TestEnvironment)
		args     []string
		validate func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult)
	}{
		{
			name: "writes open and unsaved lists",
			args: []string{"context", "-o", "main.go", "-o", "util.go", "-u", "util.go"},
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				open, err := os.ReadFile(filepath.Join(env.ContextDir, "honk_open_files.txt"))
				require.NoError(t, err)
				assert.Equal(t, "main.go\nutil.go", string(open))

				unsaved, err := os.ReadFile(filepath.Join(env.ContextDir, "honk_unsaved_files.txt"))
				require.NoError(t, err)
				assert.Equal(t, "util.go", string(unsaved))

				harness.AssertStdoutContains(t, result, "main.go")
			},
		},
		{
			name: "drops git internals",
			args: []string{"context", "-o", "main.go", "-o", "git/COMMIT_EDITMSG", "-o", "repo.git"},
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "main.go")
				harness.AssertStdoutNotContains(t, result, "COMMIT_EDITMSG")
				harness.AssertStdoutNotContains(t, result, "repo.git")
			},
		},
		{
			name: "show leaves lists untouched",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				result := harness.RunCommand(t, env, "context", "-o", "kept.go")
				harness.AssertSuccess(t, result)
			},
			args: []string{"context", "--show"},
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "kept.go")
			},
		},
		{
			name: "update with no files clears the lists",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				result := harness.RunCommand(t, env, "context", "-o", "gone.go")
				harness.AssertSuccess(t, result)
			},
			args: []string{"context"},
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutNotContains(t, result, "gone.go")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := harness.NewTestEnvironment(t)

			if tt.setup != nil {
				tt.setup(t, env)
			}

			result := harness.RunCommand(t, env, tt.args...)

			harness.AssertSuccess(t, result)
			if tt.validate != nil {
				tt.validate(t, env, result)
			}
		})
	}
}
