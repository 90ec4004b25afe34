// Package render produces the printable form of a lab report: an HTML page
// for on-screen preview and printing, and a paginated PDF artifact. Both
// paths share the same A4 layout constants so the preview is WYSIWYG with
// the generated document.
package render

import "time"

// A4 page geometry in points.
const (
	PageWidthPt  = 595.28
	PageHeightPt = 841.89

	MarginPt     = 40.0
	HeaderBandPt = 110.0
	FooterBandPt = 56.0

	// Vertical cursor threshold: emitting a table row past this point starts
	// a new page. Header/footer bands are not repeated on continuation
	// pages; single-page reports are the guaranteed case.
	PageBreakPt = PageHeightPt - FooterBandPt - 30.0

	RowHeightPt   = 22.0
	TableHeaderPt = 24.0
)

// Results table column widths (parameter | result | unit | reference range).
// They sum to the printable width between the page margins.
var ColumnWidthsPt = [4]float64{225.28, 110, 75, 105}

// Element is a positioned letterhead element, already resolved: field
// placeholders have been replaced with concrete text before reaching the
// renderer. Elements paint in slice order.
type Element struct {
	Type      string // "text", "html", "logo", "line"
	X, Y      float64
	W, H      float64
	Text      string
	HTML      string
	Src       string
	Thickness float64
	Color     string
	FontSize  float64
	Bold      bool
	Align     string // "left", "center", "right"
}

// Patient is the demographic tuple printed in the report header.
type Patient struct {
	Name   string
	Age    int
	Gender string
}

// Row is one parameter line of the results table.
type Row struct {
	Label    string
	Value    string
	Unit     string
	RefRange string
}

// Input carries everything the renderer needs for one report.
type Input struct {
	ReportID    string
	Patient     Patient
	TestName    string
	ReferredBy  string
	CollectedAt time.Time
	ReportedAt  time.Time
	Rows        []Row

	// VerifyURL is encoded into the embedded QR code. Encoding failures
	// degrade to a document without the QR image.
	VerifyURL string

	// Hospital holds the resolved letterhead field values keyed by the
	// symbolic field names (hospital_name, hospital_address, ...). Used for
	// the default header when no template elements are supplied.
	Hospital map[string]string

	// Header, when non-empty, replaces the default composed header band.
	Header []Element

	Watermark string
}

// FilterRows drops rows whose value is blank. The result table never shows a
// parameter without an entered result.
func FilterRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if isBlank(r.Value) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// noResultsText is the single placeholder row shown when every parameter is
// blank.
const noResultsText = "No test results entered yet"
