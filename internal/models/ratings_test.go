package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestRatingsPreserveWireOrder(t *testing.T) {
	raw := `{
		"Student Interaction": {"score": 3.2, "reason": "one-way", "positives": ["friendly"], "negatives": [], "suggestions": []},
		"Clarity of Content": {"score": 4.2, "reason": "clear", "positives": [], "negatives": [], "suggestions": []},
		"Commercial Balance": {"score": 4.5, "reason": "no ads", "positives": [], "negatives": [], "suggestions": []}
	}`

	var r Ratings
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	want := []string{"Student Interaction", "Clarity of Content", "Commercial Balance"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	first := strings.Index(string(out), "Student Interaction")
	last := strings.Index(string(out), "Commercial Balance")
	if first == -1 || last == -1 || first > last {
		t.Errorf("Marshal did not keep order: %s", out)
	}
}

func TestRatingsDuplicateKeyKeepsFirstPosition(t *testing.T) {
	raw := `{"A": {"score": 1}, "B": {"score": 2}, "A": {"score": 5}}`

	var r Ratings
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Names() = %v, want [A B]", got)
	}
	a, _ := r.Get("A")
	if a.Score != 5 {
		t.Errorf("A.Score = %v, want 5 (last value wins)", a.Score)
	}
}

func TestRatingsRejectsNonObject(t *testing.T) {
	var r Ratings
	if err := json.Unmarshal([]byte(`[1, 2]`), &r); err == nil {
		t.Error("expected error for array ratings")
	}
}

func TestAnalysisResultNullListsBecomeEmpty(t *testing.T) {
	raw := `{"summary": "Gradi thinks...", "positives": null, "ratings": {"Content Depth": {"score": 3.8, "reason": "ok", "positives": null}}}`

	var res AnalysisResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if res.Positives == nil || res.Negatives == nil {
		t.Error("top-level lists should be non-nil")
	}
	depth, ok := res.Ratings.Get("Content Depth")
	if !ok {
		t.Fatal("missing Content Depth")
	}
	if depth.Positives == nil || depth.Negatives == nil || depth.Suggestions == nil {
		t.Error("category lists should be non-nil")
	}
}

func TestEnvelopeDecoding(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSuccess bool
		wantData    bool
		wantError   string
	}{
		{"Success", `{"success": true, "data": {"summary": "s", "positives": [], "negatives": [], "ratings": {"X": {"score": 4}}}}`, true, true, ""},
		{"Failure", `{"success": false, "error": "bad url"}`, false, false, "bad url"},
		{"Success without data", `{"success": true}`, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			if err := json.Unmarshal([]byte(tt.raw), &env); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if env.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", env.Success, tt.wantSuccess)
			}
			if (env.Data != nil) != tt.wantData {
				t.Errorf("Data present = %v, want %v", env.Data != nil, tt.wantData)
			}
			if env.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", env.Error, tt.wantError)
			}
		})
	}
}
