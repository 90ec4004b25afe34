package render

import "testing"

func TestEvaluateRange(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		refRange string
		want     RangeStatus
	}{
		{"inside", "14.2", "12-16", InRange},
		{"at lower bound", "12", "12-16", InRange},
		{"at upper bound", "16", "12-16", InRange},
		{"above", "17.8", "12-16", AboveRange},
		{"below", "9.1", "12-16", BelowRange},
		{"decimal bounds", "4.2", "4.5-11.0", BelowRange},
		{"spaced range", "20", "12.5 - 16.5", AboveRange},
		{"qualitative value", "Positive", "12-16", InRange},
		{"empty value", "", "12-16", InRange},
		{"no range", "14", "", InRange},
		{"single number range", "14", "12", InRange},
		{"textual range", "14", "negative", InRange},
		{"inverted range", "14", "16-12", InRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluateRange(tc.value, tc.refRange); got != tc.want {
				t.Errorf("EvaluateRange(%q, %q) = %v, want %v", tc.value, tc.refRange, got, tc.want)
			}
		})
	}
}

func TestFilterRows(t *testing.T) {
	rows := []Row{
		{Label: "Hemoglobin", Value: "13.5"},
		{Label: "WBC Count", Value: ""},
		{Label: "Platelets", Value: "   "},
		{Label: "RBC Count", Value: "4.8"},
	}
	got := FilterRows(rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Label != "Hemoglobin" || got[1].Label != "RBC Count" {
		t.Errorf("unexpected rows: %+v", got)
	}
}

func TestFilterRows_AllBlank(t *testing.T) {
	rows := []Row{{Label: "Hemoglobin"}, {Label: "WBC Count", Value: " "}}
	if got := FilterRows(rows); len(got) != 0 {
		t.Errorf("expected no rows, got %+v", got)
	}
}
