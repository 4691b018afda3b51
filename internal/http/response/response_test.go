package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/platform/apierr"
)

func fromError(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	FromError(c, err)

	var env ErrorEnvelope
	if decErr := json.Unmarshal(rec.Body.Bytes(), &env); decErr != nil {
		t.Fatalf("decode error envelope: %v", decErr)
	}
	return rec.Code, env
}

func TestFromErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{pkgerrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{pkgerrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{pkgerrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{pkgerrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: embedding down", pkgerrors.ErrUpstreamUnavailable), http.StatusBadGateway, "upstream_unavailable"},
	}
	for _, tc := range cases {
		status, env := fromError(t, tc.err)
		if status != tc.wantStatus || env.Error.Code != tc.wantCode {
			t.Errorf("FromError(%v) = %d/%q, want %d/%q", tc.err, status, env.Error.Code, tc.wantStatus, tc.wantCode)
		}
	}
}

func TestFromErrorHonorsAPIError(t *testing.T) {
	// apierr carries its own status and wins over the wrapped sentinel.
	err := apierr.New(http.StatusConflict, "entry_closed",
		fmt.Errorf("%w: closed entries cannot be reopened", pkgerrors.ErrInvalidInput))

	status, env := fromError(t, err)
	if status != http.StatusConflict {
		t.Fatalf("status = %d, want 409", status)
	}
	if env.Error.Code != "entry_closed" {
		t.Fatalf("code = %q, want entry_closed", env.Error.Code)
	}
	if !strings.Contains(env.Error.Message, "reopened") {
		t.Fatalf("message = %q, want wrapped cause", env.Error.Message)
	}
}

func TestFromErrorHidesInternals(t *testing.T) {
	status, env := fromError(t, errors.New("pq: connection reset by peer"))
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if strings.Contains(env.Error.Message, "pq:") {
		t.Fatalf("internal detail leaked: %q", env.Error.Message)
	}
}
