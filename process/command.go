package process

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"honk/paths"

	shlex "github.com/anmitsu/go-shlex"
)

// shellBuiltins are words a shell resolves itself, so they are never looked up on PATH
var shellBuiltins = map[string]bool{
	// POSIX sh
	"!": true, ".": true, ":": true, "[": true, "alias": true, "case": true, "cd": true,
	"command": true, "echo": true, "eval": true, "exec": true, "exit": true, "export": true,
	"false": true, "for": true, "if": true, "printf": true, "pwd": true, "read": true,
	"readonly": true, "set": true, "shift": true, "source": true, "test": true, "times": true,
	"trap": true, "true": true, "type": true, "ulimit": true, "umask": true, "unset": true,
	"until": true, "wait": true, "while": true, "{": true, "(": true,
	// cmd.exe
	"call": true, "cls": true, "copy": true, "del": true, "dir": true, "endlocal": true,
	"goto": true, "md": true, "mkdir": true, "move": true, "rd": true, "rem": true, "ren": true,
	"rmdir": true, "setlocal": true, "start": true, "title": true, "ver": true,
}

// shellExpanded reports whether the shell rewrites word before running it
func shellExpanded(word string) bool {
	return strings.ContainsAny(word, "$`*?[%") || (strings.HasPrefix(word, "~") && !isHomePath(word))
}

// isHomePath is a ~ or ~/ path, the only tilde form expanded here
func isHomePath(word string) bool {
	return word == "~" || strings.HasPrefix(word, "~/")
}

// splitAssignment splits a leading VAR=value word
func splitAssignment(word string) (name string, ok bool) {
	eq := strings.IndexByte(word, '=')
	if eq <= 0 || strings.ContainsAny(word[:eq], `/\$"'`) {
		return "", false
	}
	return word[:eq], true
}

// ProgramName returns the program a command line runs: its first word after
// any VAR=value assignments. It is empty when the line cannot be tokenized or
// only assigns.
func ProgramName(command string) string {
	words, err := shlex.Split(command, true)
	if err != nil {
		return ""
	}
	for _, w := range words {
		if _, ok := splitAssignment(w); ok {
			continue
		}
		return w
	}
	return ""
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "/bin/sh"
}

// shellArgs returns the arguments that make shell run command
func shellArgs(shell, command string) []string {
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(shell), ".exe"))
	switch name {
	case "cmd":
		return []string{"/C", command}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command", command}
	default:
		return []string{"-c", command}
	}
}

// resolveProgram checks that the program a command line invokes exists, so a
// missing agent binary is reported as a spawn failure instead of a shell exit 127.
// Lines the tokenizer cannot split, programs the shell expands and commands
// that change PATH are left for the shell to judge.
func resolveProgram(command, dir string) error {
	words, err := shlex.Split(command, true)
	if err != nil {
		return nil
	}

	program := ""
	for _, w := range words {
		if name, ok := splitAssignment(w); ok {
			if name == "PATH" {
				return nil
			}
			continue
		}
		program = w
		break
	}
	if program == "" || shellBuiltins[program] || shellExpanded(program) {
		return nil
	}

	if isHomePath(program) {
		program = paths.ExpandPath(program)
	}

	if strings.ContainsAny(program, `/\`) && !filepath.IsAbs(program) && dir != "" {
		program = filepath.Join(dir, program)
	}

	if _, err := exec.LookPath(program); err != nil {
		return fmt.Errorf("%s: %w", program, err)
	}
	return nil
}
