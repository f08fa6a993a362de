package integration_test

import (
	"runtime"
	"testing"

	"honk/test/integration/harness"
)

// fakeGoose behaves like an interactive agent: it greets, echoes every
// non-empty line it reads and exits on "exit"
const fakeGoose = `echo "goose is ready"
while IFS= read -r line; do
  if [ "$line" = "exit" ]; then
    echo "goodbye"
    exit 0
  fi
  if [ -n "$line" ]; then
    echo "goose heard: $line"
  fi
done
`

// useFakeGoose installs the fake agent as the configured command
func useFakeGoose(t *testing.T, env *harness.TestEnvironment) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake agent needs a POSIX shell")
	}
	env.WriteFile("fake-goose.sh", fakeGoose)
	env.SetEnv("HONK_COMMAND", "sh fake-goose.sh")
	env.SetEnv("HONK_SHELL", "/bin/sh")
}
