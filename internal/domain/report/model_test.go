package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestStatusCanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusCompleted, true},
		{StatusDraft, StatusPrinted, true},
		{StatusCompleted, StatusPrinted, true},
		{StatusCompleted, StatusCompleted, true},
		{StatusCompleted, StatusDraft, false},
		{StatusPrinted, StatusCompleted, false},
		{StatusPrinted, StatusDraft, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanAdvanceTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

// The stored snapshot keeps each parameter's identifier, not just its display
// fields: corrections and audits refer to parameters by id.
func TestParameterSnapshotKeepsID(t *testing.T) {
	in := []Parameter{{ID: "hemoglobin", Label: "Hemoglobin", Value: "14.5", Unit: "g/dL", RefRange: "12-16"}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"id":"hemoglobin"`) {
		t.Fatalf("encoded snapshot missing parameter id: %s", data)
	}
	var out []Parameter
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out[0].ID != "hemoglobin" {
		t.Errorf("parameter id lost in round trip: %+v", out[0])
	}
}

func TestRecordValidate(t *testing.T) {
	valid := Record{
		HospitalID:  uuid.New(),
		PatientID:   "P-100",
		PatientName: "John Doe",
		TestID:      "T-CBC",
		TestName:    "Complete Blood Count",
		Parameters:  []Parameter{{Label: "Hemoglobin", Value: "13.5"}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := valid
	missing.PatientID = ""
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing patient id")
	}

	missing = valid
	missing.TestID = ""
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing test id")
	}

	missing = valid
	missing.Parameters = []Parameter{{Value: "13.5"}}
	if err := missing.Validate(); err == nil {
		t.Error("expected error for unlabeled parameter")
	}
}
