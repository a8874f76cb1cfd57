package assignments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pd-assess/backend/internal/models"
)

func postAssignment(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, models.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/assignments", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), "user_id", int64(1)))
	rec := httptest.NewRecorder()

	h.CreateAssignment(rec, req)

	var errResp models.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&errResp)
	return rec, errResp
}

func TestCreateAssignmentValidation(t *testing.T) {
	// Validation runs before the service is touched.
	h := NewHandler(nil)

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"invalid body", `{`, "Invalid request body"},
		{"missing engineer", `{"topic":"sta"}`, "engineer_id is required"},
		{"unknown topic", `{"engineer_id":1,"topic":"floorplanning"}`, "topic must be 'sta', 'cts', or 'signoff'"},
		{"negative count", `{"engineer_id":1,"topic":"sta","count":-1}`, "count must be between 1 and 50, or 0 for the default"},
		{"excessive count", `{"engineer_id":1,"topic":"sta","count":51}`, "count must be between 1 and 50, or 0 for the default"},
	}

	for _, tt := range tests {
		rec, errResp := postAssignment(t, h, tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
		if errResp.Error != tt.wantError {
			t.Errorf("%s: error = %q, want %q", tt.name, errResp.Error, tt.wantError)
		}
	}
}
