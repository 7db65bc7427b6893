// Package export reads and writes portable priority configuration files.
// Exports are pretty-printed JSON named priority-config-<date>.json, suitable
// for sharing between workspaces. An optional passphrase produces an
// age-encrypted armor file instead, safe to store or transfer.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/triahq/tria/internal/priority"
)

// ErrInvalidImport is returned for any import that cannot be read back into a
// configuration. Callers show its message verbatim.
var ErrInvalidImport = errors.New("Failed to import configuration. Please provide a valid export.")

// ErrWrongPassphrase is returned when decryption fails due to a bad passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// FileName returns the export file name for the given day.
func FileName(now time.Time, encrypted bool) string {
	name := "priority-config-" + now.Format("2006-01-02") + ".json"
	if encrypted {
		name += ".age"
	}
	return name
}

// Encode renders a configuration as an export document. With a non-empty
// passphrase the JSON is wrapped in age armor encryption.
func Encode(cfg priority.Config, passphrase string) ([]byte, error) {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding configuration: %w", err)
	}
	raw = append(raw, '\n')
	if passphrase == "" {
		return raw, nil
	}
	return encrypt(raw, passphrase)
}

// Decode parses an export document back into a configuration. Encrypted
// documents require the matching passphrase. Any structural failure maps to
// ErrInvalidImport; a bad passphrase maps to ErrWrongPassphrase.
func Decode(data []byte, passphrase string, v *priority.Validator) (priority.Config, error) {
	if isArmored(data) {
		plain, err := decrypt(data, passphrase)
		if err != nil {
			return priority.Config{}, err
		}
		data = plain
	}
	cfg, err := v.Normalize(data)
	if err != nil {
		return priority.Config{}, ErrInvalidImport
	}
	return cfg, nil
}

// WriteFile writes an export into dir and returns the created path.
func WriteFile(cfg priority.Config, dir, passphrase string, now time.Time) (string, error) {
	data, err := Encode(cfg, passphrase)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, FileName(now, passphrase != ""))
	if err := atomicWrite(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadFile loads and decodes an export file.
func ReadFile(path, passphrase string, v *priority.Validator) (priority.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return priority.Config{}, fmt.Errorf("reading export: %w", err)
	}
	return Decode(data, passphrase, v)
}

func isArmored(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("-----BEGIN AGE ENCRYPTED FILE-----"))
}

func encrypt(plain []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age recipient: %w", err)
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)

	w, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing age encryption: %w", err)
	}
	if _, err := w.Write(plain); err != nil {
		return nil, fmt.Errorf("encrypting export: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return buf.Bytes(), nil
}

func decrypt(raw []byte, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age identity: %w", err)
	}

	armorReader := armor.NewReader(bytes.NewReader(raw))
	r, err := age.Decrypt(armorReader, identity)
	if err != nil {
		// filippo.io/age does not export typed errors for wrong passphrase (as of v1.x).
		// We detect it by matching known error message substrings.
		msg := err.Error()
		if strings.Contains(msg, "no identity matched") || strings.Contains(msg, "incorrect") {
			return nil, ErrWrongPassphrase
		}
		return nil, ErrInvalidImport
	}

	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrInvalidImport
	}
	return plain, nil
}

// atomicWrite writes data to path atomically: write temp file → fsync → rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if err := os.Chmod(tmpName, 0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting temp file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing export data: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsyncing export data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("committing export file: %w", err)
	}

	success = true
	return nil
}
