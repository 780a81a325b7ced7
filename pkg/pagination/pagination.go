package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when the caller does not ask for one.
	DefaultLimit = 25
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 100
)

// Params carries the raw pagination inputs from a listing request.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor marks a position in a (created_at DESC, id DESC) ordered listing.
// The id breaks ties between rows created in the same instant.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        uuid.UUID `json:"id"`
}

// NormalizeLimit clamps the requested limit into [1, MaxLimit], substituting
// DefaultLimit for zero and negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer returns the normalized limit plus one row, so repositories
// can detect whether another page exists without a second query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor renders the cursor as an opaque URL-safe token.
func EncodeCursor(cursor Cursor) string {
	cursor.CreatedAt = cursor.CreatedAt.UTC()
	payload, _ := json.Marshal(cursor)
	return base64.RawURLEncoding.EncodeToString(payload)
}

// ParseCursor decodes a token produced by EncodeCursor. A blank token means
// the first page and parses to nil without error.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	var cursor Cursor
	if err := json.Unmarshal(payload, &cursor); err != nil {
		return nil, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if cursor.CreatedAt.IsZero() || cursor.ID == uuid.Nil {
		return nil, fmt.Errorf("incomplete cursor")
	}
	return &cursor, nil
}
