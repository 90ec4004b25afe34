package render

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ImageFetcher retrieves a logo image by URL for embedding into the PDF. A
// fetch failure skips the image; it never fails the document.
type ImageFetcher func(url string) ([]byte, error)

// Renderer produces HTML and PDF documents from a report Input.
type Renderer struct {
	logger     zerolog.Logger
	encodeQR   QREncoder
	fetchImage ImageFetcher
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithQREncoder replaces the QR encoder.
func WithQREncoder(enc QREncoder) Option {
	return func(r *Renderer) { r.encodeQR = enc }
}

// WithImageFetcher replaces the logo image fetcher.
func WithImageFetcher(f ImageFetcher) Option {
	return func(r *Renderer) { r.fetchImage = f }
}

func NewRenderer(logger zerolog.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		logger:     logger.With().Str("component", "render").Logger(),
		encodeQR:   EncodeQR,
		fetchImage: fetchHTTPImage,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var imageClient = &http.Client{Timeout: 5 * time.Second}

func fetchHTTPImage(url string) ([]byte, error) {
	resp, err := imageClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{status: resp.Status}
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

type httpStatusError struct{ status string }

func (e *httpStatusError) Error() string { return "unexpected status " + e.status }

// qrPNG encodes the verification URL, or returns nil when the URL is empty or
// encoding fails. The failure is logged and the document renders without the
// QR image.
func (r *Renderer) qrPNG(in Input) []byte {
	if in.VerifyURL == "" {
		return nil
	}
	png, err := r.encodeQR(in.VerifyURL, qrImageSizePx)
	if err != nil {
		r.logger.Warn().Err(err).Str("report_id", in.ReportID).Msg("qr encode failed, rendering without qr")
		return nil
	}
	return png
}
