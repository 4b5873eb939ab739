// Package idgen generates task identifiers.
package idgen

import (
	"strings"

	"github.com/google/uuid"

	"github.com/runoshun/smart-tasks/internal/domain"
)

// ShortLen is the number of leading characters shown when an id is abbreviated.
const ShortLen = 8

// UUID generates random (version 4) UUIDs without hyphens.
type UUID struct{}

// NewID returns a fresh 32-character hex id.
func (UUID) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Short abbreviates id for display.
func Short(id string) string {
	if len(id) <= ShortLen {
		return id
	}
	return id[:ShortLen]
}

var _ domain.IDGenerator = UUID{}
