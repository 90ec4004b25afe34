// Package report owns lab report records: the patient/test snapshot taken at
// creation time, the entered results, and the share/verification identifiers
// that gate public access to the rendered document.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is advisory lifecycle metadata, not a gate on reads. Transitions
// only move forward: draft -> completed -> printed.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusPrinted   Status = "printed"
)

var statusRank = map[Status]int{
	StatusDraft:     0,
	StatusCompleted: 1,
	StatusPrinted:   2,
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next is a forward transition.
// Equal states are allowed so the operation is idempotent.
func (s Status) CanAdvanceTo(next Status) bool {
	return statusRank[next] >= statusRank[s]
}

// Parameter is one measured value of the ordered test, stored with its
// display metadata so the rendered report is independent of later catalog
// edits.
type Parameter struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Unit     string `json:"unit,omitempty"`
	RefRange string `json:"ref_range,omitempty"`
}

// Record is a lab report. Patient and test fields are denormalized snapshots:
// the document must keep printing what it said when it was issued.
type Record struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	HospitalID uuid.UUID  `db:"hospital_id" json:"hospital_id"`
	TemplateID *uuid.UUID `db:"template_id" json:"template_id,omitempty"`

	// ReportID is the public document identifier, independent of the row id.
	ReportID string `db:"report_id" json:"report_id"`

	PatientID     string `db:"patient_id" json:"patient_id"`
	PatientName   string `db:"patient_name" json:"patient_name"`
	PatientAge    int    `db:"patient_age" json:"patient_age"`
	PatientGender string `db:"patient_gender" json:"patient_gender"`

	TestID     string `db:"test_id" json:"test_id"`
	TestName   string `db:"test_name" json:"test_name"`
	ReferredBy string `db:"referred_by" json:"referred_by,omitempty"`

	Parameters []Parameter `db:"parameters" json:"parameters"`
	Status     Status      `db:"status" json:"status"`

	// Token gates public fetches once set; QRID is the opaque verification
	// handle encoded in the QR code. Both start NULL and are provisioned
	// lazily, exactly once.
	Token *string `db:"token" json:"-"`
	QRID  *string `db:"qr_id" json:"-"`

	CollectedAt *time.Time `db:"collected_at" json:"collected_at,omitempty"`
	ReportedAt  *time.Time `db:"reported_at" json:"reported_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Validate checks the fields required to issue a report.
func (r *Record) Validate() error {
	if r.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	if r.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if r.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if r.TestID == "" {
		return fmt.Errorf("test_id is required")
	}
	if r.TestName == "" {
		return fmt.Errorf("test_name is required")
	}
	for i, p := range r.Parameters {
		if p.Label == "" {
			return fmt.Errorf("parameter %d: label is required", i)
		}
	}
	return nil
}
