package report

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labdesk/labdesk/internal/domain/template"
	"github.com/labdesk/labdesk/internal/platform/artifact"
	"github.com/labdesk/labdesk/internal/platform/auth"
	"github.com/labdesk/labdesk/internal/render"
	"github.com/labdesk/labdesk/pkg/pagination"
)

// TemplateSource loads letterhead templates for rendering.
type TemplateSource interface {
	Get(ctx context.Context, id uuid.UUID) (*template.Template, error)
}

// FieldSource resolves a hospital's letterhead field values.
type FieldSource interface {
	ResolveFields(ctx context.Context, hospitalID uuid.UUID) (map[string]string, error)
}

// Renderer produces the printable report forms.
type Renderer interface {
	RenderHTML(in render.Input) (string, error)
	RenderPDF(in render.Input) ([]byte, error)
}

type Handler struct {
	svc       *Service
	templates TemplateSource
	fields    FieldSource
	renderer  Renderer
	artifacts *artifact.Cache
	baseURL   string
	logger    zerolog.Logger
}

func NewHandler(svc *Service, templates TemplateSource, fields FieldSource, renderer Renderer,
	artifacts *artifact.Cache, baseURL string, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		templates: templates,
		fields:    fields,
		renderer:  renderer,
		artifacts: artifacts,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger.With().Str("component", "report-handler").Logger(),
	}
}

// RegisterPublicRoutes mounts the unauthenticated document endpoints on g.
// The group's own prefix is preserved in every link the documents carry.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/report/:reportId", h.Fetch)
	g.GET("/report/verify/:qrId", h.Verify)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole("admin", "lab_tech"))
	staff.GET("/reports", h.List)
	staff.GET("/reports/:id", h.Get)
	staff.POST("/reports", h.Create)
	staff.PUT("/reports/:id", h.Update)
	staff.PATCH("/reports/:id/status", h.AdvanceStatus)
	staff.POST("/reports/:id/share", h.Share)
}

// --- public document endpoints ---
//
// Errors here are plain text: the audience is a patient's browser following a
// shared link or a QR scan, not an API client.

// Fetch serves the rendered report document. Token-gated when the report has
// a token; open when it does not.
func (h *Handler) Fetch(c echo.Context) error {
	reportID := c.Param("reportId")
	if reportID == "" {
		return c.String(http.StatusBadRequest, "Invalid report id")
	}

	ctx := c.Request().Context()
	rec, err := h.svc.GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.String(http.StatusNotFound, "Report not found")
		}
		h.logger.Error().Err(err).Str("report_id", reportID).Msg("report lookup failed")
		return c.String(http.StatusInternalServerError, "Something went wrong")
	}

	if !tokenMatches(rec, c.QueryParam("token")) {
		return c.String(http.StatusForbidden, "Invalid or missing access token")
	}

	// Provision token and qr id on first access so the rendered document
	// always carries its verification QR. The gate above used the state the
	// caller saw; gating only tightens for subsequent fetches.
	if _, _, err := h.svc.EnsureVerification(ctx, rec); err != nil {
		h.logger.Error().Err(err).Str("report_id", reportID).Msg("identifier provisioning failed")
		return c.String(http.StatusInternalServerError, "Something went wrong")
	}

	prefix := BasePrefix(c.Request().URL.Path)

	if c.QueryParam("format") == "html" {
		in, err := h.buildInput(ctx, rec, prefix)
		if err != nil {
			h.logger.Error().Err(err).Str("report_id", reportID).Msg("render input failed")
			return c.String(http.StatusInternalServerError, "Failed to generate report")
		}
		page, err := h.renderer.RenderHTML(in)
		if err != nil {
			h.logger.Error().Err(err).Str("report_id", reportID).Msg("html render failed")
			return c.String(http.StatusInternalServerError, "Failed to generate report")
		}
		return c.HTML(http.StatusOK, page)
	}

	pdf := h.artifacts.Get(rec.ReportID)
	if pdf == nil {
		in, err := h.buildInput(ctx, rec, prefix)
		if err != nil {
			h.logger.Error().Err(err).Str("report_id", reportID).Msg("render input failed")
			return c.String(http.StatusInternalServerError, "Failed to generate report")
		}
		pdf, err = h.renderer.RenderPDF(in)
		if err != nil {
			h.logger.Error().Err(err).Str("report_id", reportID).Msg("pdf render failed")
			return c.String(http.StatusInternalServerError, "Failed to generate report")
		}
		h.artifacts.Put(rec.ReportID, pdf)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("inline; filename=%q", "report-"+rec.ReportID+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// Verify resolves a scanned QR code. On success it shows a confirmation page
// that forwards to the document after a short pause.
func (h *Handler) Verify(c echo.Context) error {
	qrID := c.Param("qrId")
	if qrID == "" {
		return c.String(http.StatusBadRequest, "Invalid verification code")
	}

	ctx := c.Request().Context()
	rec, err := h.svc.GetByQRID(ctx, qrID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.String(http.StatusNotFound, "Verification code not recognized")
		}
		h.logger.Error().Err(err).Msg("verification lookup failed")
		return c.String(http.StatusInternalServerError, "Something went wrong")
	}

	if !tokenMatches(rec, c.QueryParam("token")) {
		return c.String(http.StatusForbidden, "Invalid or missing access token")
	}

	hospitalName := ""
	if values, err := h.fields.ResolveFields(ctx, rec.HospitalID); err == nil {
		hospitalName = values["hospital_name"]
	}

	token := ""
	if rec.Token != nil {
		token = *rec.Token
	}
	prefix := BasePrefix(c.Request().URL.Path)
	fetchURL := FetchURL(h.baseURL, prefix, rec.ReportID, token)

	page, err := renderVerifyPage(verifyPageData{
		HospitalName: hospitalName,
		PatientName:  rec.PatientName,
		TestName:     rec.TestName,
		ReportID:     rec.ReportID,
		ReportedAt:   formatVerifyDate(rec),
		FetchURL:     fetchURL,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("report_id", rec.ReportID).Msg("verify page render failed")
		return c.String(http.StatusInternalServerError, "Something went wrong")
	}
	return c.HTML(http.StatusOK, page)
}

// buildInput assembles everything the renderer needs: the resolved hospital
// fields, the letterhead elements when the report has a template, and the
// verification URL when the report has been provisioned for sharing.
func (h *Handler) buildInput(ctx context.Context, rec *Record, prefix string) (render.Input, error) {
	values, err := h.fields.ResolveFields(ctx, rec.HospitalID)
	if err != nil {
		return render.Input{}, fmt.Errorf("resolve hospital fields: %w", err)
	}

	in := render.Input{
		ReportID:   rec.ReportID,
		Patient:    render.Patient{Name: rec.PatientName, Age: rec.PatientAge, Gender: rec.PatientGender},
		TestName:   rec.TestName,
		ReferredBy: rec.ReferredBy,
		Hospital:   values,
	}
	if rec.CollectedAt != nil {
		in.CollectedAt = *rec.CollectedAt
	}
	if rec.ReportedAt != nil {
		in.ReportedAt = *rec.ReportedAt
	}
	for _, p := range rec.Parameters {
		in.Rows = append(in.Rows, render.Row{Label: p.Label, Value: p.Value, Unit: p.Unit, RefRange: p.RefRange})
	}

	if rec.TemplateID != nil {
		tpl, err := h.templates.Get(ctx, *rec.TemplateID)
		switch {
		case err == nil:
			in.Header = template.RenderElements(tpl.Elements, values)
			in.Watermark = tpl.Settings.Watermark
		case errors.Is(err, template.ErrNotFound):
			h.logger.Warn().Str("report_id", rec.ReportID).Msg("template missing, using default header")
		default:
			return render.Input{}, fmt.Errorf("load template: %w", err)
		}
	}

	if rec.QRID != nil {
		token := ""
		if rec.Token != nil {
			token = *rec.Token
		}
		in.VerifyURL = VerifyURL(h.baseURL, prefix, *rec.QRID, token)
	}
	return in, nil
}

// tokenMatches applies the access gate: a stored token requires an exact
// match; no stored token means the record is open.
func tokenMatches(rec *Record, supplied string) bool {
	if rec.Token == nil {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(*rec.Token)) == 1
}

// --- staff endpoints ---

func (h *Handler) Create(c echo.Context) error {
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) List(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.QueryParam("hospital_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hospital_id is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByHospital(c.Request().Context(), hospitalID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec.ID = id
	if err := h.svc.Update(c.Request().Context(), &rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "report not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.artifacts.Delete(rec.ReportID)
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) AdvanceStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AdvanceStatus(c.Request().Context(), id, body.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "report not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.artifacts.Delete(rec.ReportID)
	return c.JSON(http.StatusOK, rec)
}

// Share provisions the report's token and qr id if needed and returns the
// shareable links. Safe to call repeatedly; the identifiers never change once
// set.
func (h *Handler) Share(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	rec, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "report not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	token, qrID, err := h.svc.EnsureVerification(ctx, rec)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// Artifacts rendered before provisioning have no QR code; drop them.
	h.artifacts.Delete(rec.ReportID)
	return c.JSON(http.StatusOK, map[string]string{
		"report_id":  rec.ReportID,
		"token":      token,
		"qr_id":      qrID,
		"fetch_url":  FetchURL(h.baseURL, "", rec.ReportID, token),
		"verify_url": VerifyURL(h.baseURL, "", qrID, token),
	})
}
