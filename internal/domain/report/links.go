package report

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// reportIDAlphabet is the base32 set used for public report ids: unambiguous
// in print and safe in URLs without escaping.
const reportIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

const reportIDLength = 10

// NewReportID generates a public document identifier of the form
// "RPT-XXXXXXXXXX".
func NewReportID() (string, error) {
	buf := make([]byte, reportIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate report id: %w", err)
	}
	for i, b := range buf {
		buf[i] = reportIDAlphabet[int(b)%len(reportIDAlphabet)]
	}
	return "RPT-" + string(buf), nil
}

// NewToken generates a 128-bit access token, base64url without padding.
func NewToken() (string, error) {
	return randomToken("token")
}

// NewQRID generates a 128-bit verification id, base64url without padding. It
// is deliberately unrelated to the report id so the QR handle leaks nothing
// about the document it points at.
func NewQRID() (string, error) {
	return randomToken("qr id")
}

func randomToken(what string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate %s: %w", what, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// BasePrefix returns the request path prefix preceding the literal "report"
// segment, so links generated from a request served under a mount prefix
// ("/pub/report/...") point back into the same prefix.
func BasePrefix(path string) string {
	if i := strings.Index(path, "/report/"); i >= 0 {
		return path[:i]
	}
	return ""
}

// FetchURL builds the public document URL. The token query parameter is
// appended only when the report is token-gated.
func FetchURL(base, prefix, reportID, token string) string {
	u := strings.TrimRight(base, "/") + prefix + "/report/" + url.PathEscape(reportID)
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}

// VerifyURL builds the URL encoded into the report's QR code. The token rides
// along so the landing page can hand the scanner straight through to a gated
// document.
func VerifyURL(base, prefix, qrID, token string) string {
	u := strings.TrimRight(base, "/") + prefix + "/report/verify/" + url.PathEscape(qrID)
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}
