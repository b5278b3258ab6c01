package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/rankbet/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), wantCode: http.StatusBadRequest, wantStatus: "INVALID_ARGUMENT"},
		{name: "not found", err: fmt.Errorf("%w: ranking", usecase.ErrNotFound), wantCode: http.StatusNotFound, wantStatus: "NOT_FOUND"},
		{name: "conflict", err: fmt.Errorf("%w: ranking exists", usecase.ErrConflict), wantCode: http.StatusConflict, wantStatus: "ALREADY_EXISTS"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, wantCode: http.StatusUnauthorized, wantStatus: "UNAUTHENTICATED"},
		{name: "provider down", err: fmt.Errorf("fetch: %w", usecase.ErrDependencyUnavailable), wantCode: http.StatusServiceUnavailable, wantStatus: "UNAVAILABLE"},
		{name: "deadline", err: fmt.Errorf("fetch: %w", context.DeadlineExceeded), wantCode: http.StatusGatewayTimeout, wantStatus: "DEADLINE_EXCEEDED"},
		{name: "unmapped", err: errors.New("pq: connection refused"), wantCode: http.StatusInternalServerError, wantStatus: "INTERNAL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rec.Code)
			}

			var body map[string]any
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			errorObj, ok := body["error"].(map[string]any)
			if !ok {
				t.Fatalf("expected error object in response")
			}
			if got, _ := errorObj["status"].(string); got != tc.wantStatus {
				t.Fatalf("expected error status %s, got %v", tc.wantStatus, errorObj["status"])
			}
		})
	}
}

func TestWriteError_InternalErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("update accuracy score: pq: relation \"rankings\" does not exist"))

	if strings.Contains(rec.Body.String(), "pq:") {
		t.Fatalf("internal error leaked to client: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), internalErrorMsg) {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
}
