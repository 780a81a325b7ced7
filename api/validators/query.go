package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryUUID reads an optional uuid query parameter. Absent returns nil.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return &parsed, nil
}

// ParsePathUUID reads a required uuid path segment already extracted by the
// router.
func ParsePathUUID(raw, field string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a uuid").WithDetails(map[string]any{"field": field})
	}
	return parsed, nil
}
