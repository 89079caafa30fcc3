package engine

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(newTestEngine())
	handler.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postAssemble(t *testing.T, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses/assemble", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)
	return rec
}

func TestHandlerAssembleCompletedJob(t *testing.T) {
	body := []byte(`{
		"jobId": "job-200",
		"status": "completed",
		"comparisonMode": "consecutive",
		"frames": [{"index": 0}, {"index": 1}],
		"timeline": [{
			"beforeIndex": 0,
			"afterIndex": 1,
			"pipeline": {
				"object_diff": {
					"report": {
						"paired": [{"class_name": "relay", "box_shared": [10, 10, 60, 60], "ssim": 0.55, "changed": true, "confidence": 0.9}],
						"counts": {"changed": 1, "stable": 0}
					},
					"imageSize": {"width": 640, "height": 480}
				}
			}
		}]
	}`)

	rec := postAssemble(t, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.JobID != "job-200" {
		t.Fatalf("expected jobId echoed, got %q", result.JobID)
	}
	if len(result.Changes) != 1 {
		t.Fatalf("expected one change, got %d", len(result.Changes))
	}
	if result.Timeline == nil || len(result.Timeline.Comparisons) != 1 {
		t.Fatalf("expected timeline with one comparison")
	}
}

func TestHandlerAssembleIncompleteJob(t *testing.T) {
	body := []byte(`{
		"jobId": "job-201",
		"status": "failed",
		"error": {"stage": "changeformer_cd", "message": "inference timed out"}
	}`)

	rec := postAssemble(t, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != ErrorCodeJobIncomplete {
		t.Fatalf("expected code %s, got %s", ErrorCodeJobIncomplete, payload.Error.Code)
	}
	if payload.Error.Details["jobId"] != "job-201" {
		t.Fatalf("expected jobId in details, got %v", payload.Error.Details)
	}
	if payload.Error.Details["stage"] != "changeformer_cd" {
		t.Fatalf("expected failing stage in details, got %v", payload.Error.Details)
	}
}

func TestHandlerAssembleRejectsBadBody(t *testing.T) {
	for name, body := range map[string][]byte{
		"not json":       []byte("{garbage"),
		"missing job id": []byte(`{"status": "completed"}`),
	} {
		rec := postAssemble(t, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", name, rec.Code, rec.Body.String())
		}
		var payload struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s: decode response: %v", name, err)
		}
		if payload.Error.Code != ErrorCodeValidation {
			t.Fatalf("%s: expected code %s, got %s", name, ErrorCodeValidation, payload.Error.Code)
		}
	}
}
