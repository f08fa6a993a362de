package server

import (
	"fmt"
	"os"

	"honk/logging"

	"github.com/charmbracelet/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// loadAuthorizedKeys parses every key in an authorized_keys file. Lines that
// do not parse are skipped.
func loadAuthorizedKeys(path string) ([]gossh.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read authorized_keys: %w", err)
	}

	var keys []gossh.PublicKey
	for len(data) > 0 {
		key, _, _, rest, err := gossh.ParseAuthorizedKey(data)
		if err != nil {
			// ParseAuthorizedKey only fails once no parseable line is left
			break
		}
		keys = append(keys, key)
		data = rest
	}
	return keys, nil
}

// isKeyAuthorized checks if the client's public key is in authorized_keys.
// The file is read on every attempt so edits apply without a restart.
func isKeyAuthorized(clientKey ssh.PublicKey, authorizedKeysPath string) bool {
	keys, err := loadAuthorizedKeys(authorizedKeysPath)
	if err != nil {
		logging.Logger.Warn("Cannot check SSH key", "error", err, "path", authorizedKeysPath)
		return false
	}

	for _, key := range keys {
		if ssh.KeysEqual(clientKey, key) {
			return true
		}
	}
	return false
}

// getKeyFingerprint returns the SHA256 fingerprint of an SSH public key for the audit log
func getKeyFingerprint(key ssh.PublicKey) string {
	return gossh.FingerprintSHA256(key)
}
