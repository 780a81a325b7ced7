package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
	"github.com/spinwin/prizewheel-backend/pkg/types"
)

func newCapturedLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.New(logger.Options{ServiceName: "test", Output: buf}), buf
}

func TestWriteErrorBusinessRejectionLogsWarn(t *testing.T) {
	logg, buf := newCapturedLogger()
	rec := httptest.NewRecorder()

	WriteError(context.Background(), logg, rec, pkgerrors.New(pkgerrors.CodeInsufficientStock, "no available stock"))

	if rec.Code != 400 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}

	line := buf.String()
	if !strings.Contains(line, `"level":"warn"`) {
		t.Fatalf("rejection not logged at warn: %s", line)
	}
	if strings.Contains(line, `"level":"error"`) {
		t.Fatalf("rejection logged as an incident: %s", line)
	}
}

func TestWriteErrorServerFailureLogsError(t *testing.T) {
	logg, buf := newCapturedLogger()
	rec := httptest.NewRecorder()

	WriteError(context.Background(), logg, rec, pkgerrors.New(pkgerrors.CodeInternal, "boom"))

	if rec.Code != 500 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("server failure not logged at error: %s", buf.String())
	}
}
