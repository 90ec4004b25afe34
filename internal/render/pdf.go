package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006, 15:04")
}

// RenderPDF produces the downloadable report artifact. The layout mirrors
// RenderHTML: header band, patient block, results table, footer with the
// verification QR. Long result tables overflow onto continuation pages.
func (r *Renderer) RenderPDF(in Input) ([]byte, error) {
	rows := FilterRows(in.Rows)

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Lab Report "+in.ReportID, true)
	pdf.AddPage()
	drawWatermark(pdf, in.Watermark)

	var y float64
	if len(in.Header) > 0 {
		r.drawHeaderElements(pdf, in.Header)
		y = HeaderBandPt + 12
	} else {
		y = drawDefaultHeader(pdf, in.Hospital)
	}

	y = drawMeta(pdf, in, y)
	y = drawTestName(pdf, in.TestName, y)
	drawResults(pdf, in.Watermark, rows, y)
	r.drawFooter(pdf, in)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawWatermark(pdf *gofpdf.Fpdf, text string) {
	if text == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 56)
	pdf.SetTextColor(232, 232, 232)
	pdf.TransformBegin()
	pdf.TransformRotate(30, PageWidthPt/2, PageHeightPt/2)
	w := pdf.GetStringWidth(text)
	pdf.Text(PageWidthPt/2-w/2, PageHeightPt/2, text)
	pdf.TransformEnd()
	pdf.SetTextColor(17, 17, 17)
}

// drawDefaultHeader composes the centered header band from the resolved
// hospital fields and returns the y cursor below it.
func drawDefaultHeader(pdf *gofpdf.Fpdf, hospital map[string]string) float64 {
	y := MarginPt

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(17, 17, 17)
	name := hospital["hospital_name"]
	pdf.SetXY(MarginPt, y)
	pdf.CellFormat(PageWidthPt-2*MarginPt, 22, name, "", 0, "C", false, 0, "")
	y += 26

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(51, 51, 51)
	for _, line := range defaultHeaderLines(hospital) {
		pdf.SetXY(MarginPt, y)
		pdf.CellFormat(PageWidthPt-2*MarginPt, 12, line, "", 0, "C", false, 0, "")
		y += 13
	}

	y += 6
	pdf.SetLineWidth(1.5)
	pdf.SetDrawColor(34, 34, 34)
	pdf.Line(MarginPt, y, PageWidthPt-MarginPt, y)
	return y + 10
}

func (r *Renderer) drawHeaderElements(pdf *gofpdf.Fpdf, elements []Element) {
	for _, e := range elements {
		switch e.Type {
		case "text", "html":
			text := e.Text
			if e.Type == "html" {
				text = stripTags(e.HTML)
			}
			size := e.FontSize
			if size == 0 {
				size = 10
			}
			style := ""
			if e.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, size)
			red, green, blue := parseHexColor(e.Color)
			pdf.SetTextColor(red, green, blue)
			w := e.W
			if w == 0 {
				w = pdf.GetStringWidth(text) + 2
			}
			align := "L"
			switch e.Align {
			case "center":
				align = "C"
			case "right":
				align = "R"
			}
			pdf.SetXY(e.X, e.Y)
			pdf.CellFormat(w, size*1.3, text, "", 0, align, false, 0, "")
		case "line":
			red, green, blue := parseHexColor(e.Color)
			pdf.SetDrawColor(red, green, blue)
			pdf.SetLineWidth(e.Thickness)
			w := e.W
			if w == 0 {
				w = PageWidthPt - 2*e.X
			}
			pdf.Line(e.X, e.Y, e.X+w, e.Y)
		case "logo":
			r.drawLogo(pdf, e)
		}
	}
	pdf.SetTextColor(17, 17, 17)
	pdf.SetDrawColor(34, 34, 34)
}

func (r *Renderer) drawLogo(pdf *gofpdf.Fpdf, e Element) {
	img, err := r.fetchImage(e.Src)
	if err != nil {
		r.logger.Warn().Err(err).Str("src", e.Src).Msg("logo fetch failed, skipping element")
		return
	}
	typ := sniffImageType(img)
	if typ == "" {
		r.logger.Warn().Str("src", e.Src).Msg("unsupported logo format, skipping element")
		return
	}
	name := "logo-" + e.Src
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: typ}, bytes.NewReader(img))
	pdf.ImageOptions(name, e.X, e.Y, e.W, e.H, false, gofpdf.ImageOptions{ImageType: typ}, 0, "")
}

func sniffImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 3 && data[0] == 0xFF && data[1] == 0xD8:
		return "JPG"
	default:
		return ""
	}
}

func drawMeta(pdf *gofpdf.Fpdf, in Input, y float64) float64 {
	left := []string{
		"Patient: " + in.Patient.Name,
		fmt.Sprintf("Age / Gender: %d / %s", in.Patient.Age, in.Patient.Gender),
		"Referred By: " + in.ReferredBy,
	}
	right := []string{
		"Report ID: " + in.ReportID,
		"Collected: " + formatDate(in.CollectedAt),
		"Reported: " + formatDate(in.ReportedAt),
	}

	pdf.SetFont("Helvetica", "", 9.5)
	pdf.SetTextColor(17, 17, 17)
	line := y
	for _, s := range left {
		pdf.Text(MarginPt, line+9, s)
		line += 14
	}
	line = y
	for _, s := range right {
		w := pdf.GetStringWidth(s)
		pdf.Text(PageWidthPt-MarginPt-w, line+9, s)
		line += 14
	}
	return y + float64(len(left))*14 + 6
}

func drawTestName(pdf *gofpdf.Fpdf, name string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetXY(MarginPt, y)
	pdf.CellFormat(PageWidthPt-2*MarginPt, 18, strings.ToUpper(name), "", 0, "C", false, 0, "")
	return y + 26
}

func drawTableHeader(pdf *gofpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 9.5)
	pdf.SetTextColor(17, 17, 17)
	pdf.SetDrawColor(34, 34, 34)
	pdf.SetLineWidth(1)
	pdf.Line(MarginPt, y, PageWidthPt-MarginPt, y)

	headers := [4]string{"Parameter", "Result", "Unit", "Reference Range"}
	x := MarginPt
	for i, h := range headers {
		pdf.Text(x+4, y+16, h)
		x += ColumnWidthsPt[i]
	}
	y += TableHeaderPt
	pdf.Line(MarginPt, y, PageWidthPt-MarginPt, y)
	return y
}

func drawResults(pdf *gofpdf.Fpdf, watermark string, rows []Row, y float64) {
	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(102, 102, 102)
		pdf.SetXY(MarginPt, y+20)
		pdf.CellFormat(PageWidthPt-2*MarginPt, 14, noResultsText, "", 0, "C", false, 0, "")
		return
	}

	y = drawTableHeader(pdf, y)
	for _, row := range rows {
		if y+RowHeightPt > PageBreakPt {
			pdf.AddPage()
			drawWatermark(pdf, watermark)
			y = drawTableHeader(pdf, MarginPt)
		}
		status := EvaluateRange(row.Value, row.RefRange)
		if status != InRange {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(196, 30, 30)
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(17, 17, 17)
		}

		baseline := y + 15
		x := MarginPt
		pdf.Text(x+4, baseline, row.Label)
		x += ColumnWidthsPt[0]
		pdf.Text(x+4, baseline, row.Value)
		if status != InRange {
			drawArrow(pdf, x+8+pdf.GetStringWidth(row.Value), baseline, status == AboveRange)
		}
		x += ColumnWidthsPt[1]
		pdf.Text(x+4, baseline, row.Unit)
		x += ColumnWidthsPt[2]
		pdf.Text(x+4, baseline, row.RefRange)

		y += RowHeightPt
		pdf.SetDrawColor(221, 221, 221)
		pdf.SetLineWidth(0.5)
		pdf.Line(MarginPt, y, PageWidthPt-MarginPt, y)
	}
}

// drawArrow paints a small up or down triangle next to an out-of-range
// result. The core fonts have no glyph for the arrow characters, so the
// marker is drawn as a filled polygon.
func drawArrow(pdf *gofpdf.Fpdf, x, baseline float64, up bool) {
	pdf.SetFillColor(196, 30, 30)
	const h = 6.0
	const w = 6.0
	var pts []gofpdf.PointType
	if up {
		pts = []gofpdf.PointType{
			{X: x, Y: baseline},
			{X: x + w, Y: baseline},
			{X: x + w/2, Y: baseline - h},
		}
	} else {
		pts = []gofpdf.PointType{
			{X: x, Y: baseline - h},
			{X: x + w, Y: baseline - h},
			{X: x + w/2, Y: baseline},
		}
	}
	pdf.Polygon(pts, "F")
}

func (r *Renderer) drawFooter(pdf *gofpdf.Fpdf, in Input) {
	top := PageHeightPt - FooterBandPt
	pdf.SetDrawColor(187, 187, 187)
	pdf.SetLineWidth(0.75)
	pdf.Line(MarginPt, top, PageWidthPt-MarginPt, top)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(85, 85, 85)
	pdf.Text(MarginPt, top+16, "This report is electronically generated and verified.")
	pdf.Text(MarginPt, top+28, "Report ID: "+in.ReportID)

	if png := r.qrPNG(in); png != nil {
		name := "verify-qr-" + in.ReportID
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		qrX := PageWidthPt - MarginPt - qrSizePt
		pdf.ImageOptions(name, qrX, top-qrSizePt-6, qrSizePt, qrSizePt, false, opts, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetXY(qrX, top-4)
		pdf.CellFormat(qrSizePt, 8, qrLabel, "", 0, "C", false, 0, "")
	}
}

func parseHexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 17, 17, 17
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 17, 17, 17
	}
	return int(v >> 16), int(v >> 8 & 0xFF), int(v & 0xFF)
}

// stripTags reduces stored HTML to its text content for the PDF path, which
// has no HTML engine.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
