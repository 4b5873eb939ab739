// Package backup encodes and decodes task list backup files.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// Format is a backup file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown backup format (want json or yaml)")

// DetectFormat picks the format from an explicit name, falling back to
// the file extension and then JSON.
func DetectFormat(path, explicit string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "":
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, explicit)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatJSON, nil
}

// Encode renders tasks as a backup document.
// JSON output is a 2-space indented array.
func Encode(tasks []domain.Task, format Format) ([]byte, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	}
}

// Decode converts a backup document into the JSON payload accepted by
// the task store's Restore. Unparseable input yields
// domain.ErrBackupUnreadable; a YAML document that is not a sequence yields
// domain.ErrInvalidRestorePayload. JSON input is passed through untouched
// so Restore performs every check. A leading UTF-8 byte order mark is
// dropped.
func Decode(data []byte, format Format) (json.RawMessage, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if format != FormatYAML {
		return json.RawMessage(data), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackupUnreadable, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a list of tasks", domain.ErrInvalidRestorePayload)
	}

	var tasks []domain.Task
	if err := root.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRestorePayload, err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRestorePayload, err)
	}
	return payload, nil
}

// ReadFile reads and decodes a backup file.
func ReadFile(path string, format Format) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackupUnreadable, err)
	}
	return Decode(data, format)
}

// WriteFile writes an encoded backup, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}
