// Package harness provides utilities for integration testing the honk CLI.
// It handles binary compilation, environment isolation, and command execution.
//
// Environment variables managed:
//   - HONK_HOME: Isolated per test (temp directory)
//   - HONK_CONTEXT_DIR: Isolated per test, so file lists never leak into the OS temp dir
//   - HONK_DEBUG: Disabled to reduce noise
package harness
