package report

import (
	"bytes"
	htmltemplate "html/template"
)

type verifyPageData struct {
	HospitalName string
	PatientName  string
	TestName     string
	ReportID     string
	ReportedAt   string
	FetchURL     string
}

func formatVerifyDate(rec *Record) string {
	if rec.ReportedAt == nil {
		return "-"
	}
	return rec.ReportedAt.Format("02 Jan 2006")
}

func renderVerifyPage(data verifyPageData) (string, error) {
	var buf bytes.Buffer
	if err := verifyTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// The confirmation page forwards to the document after a short pause, with a
// meta refresh as fallback when scripting is off and a manual link as a last
// resort.
var verifyTmpl = htmltemplate.Must(htmltemplate.New("verify").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="4;url={{.FetchURL}}">
<title>Report Verified</title>
<style>
  body { margin: 0; font-family: Helvetica, Arial, sans-serif; background: #f4f6f8; color: #111; display: flex; justify-content: center; }
  .card { max-width: 420px; margin: 48px 16px; background: #fff; border-radius: 8px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.08); text-align: center; }
  .badge { width: 56px; height: 56px; border-radius: 50%; background: #1d9e55; color: #fff; font-size: 32px; line-height: 56px; margin: 0 auto 16px; }
  h1 { font-size: 20px; margin: 0 0 4px; }
  .hospital { color: #555; margin-bottom: 20px; }
  dl { text-align: left; font-size: 14px; }
  dt { float: left; clear: left; width: 110px; color: #777; }
  dd { margin: 0 0 6px 120px; }
  .redirect { margin-top: 24px; font-size: 13px; color: #777; }
  a { color: #1459c8; }
</style>
</head>
<body>
<div class="card">
  <div class="badge">&#10003;</div>
  <h1>Report Verified</h1>
  {{if .HospitalName}}<div class="hospital">{{.HospitalName}}</div>{{end}}
  <dl>
    <dt>Patient</dt><dd>{{.PatientName}}</dd>
    <dt>Test</dt><dd>{{.TestName}}</dd>
    <dt>Report ID</dt><dd>{{.ReportID}}</dd>
    <dt>Reported</dt><dd>{{.ReportedAt}}</dd>
  </dl>
  <div class="redirect">
    Taking you to the report&hellip;<br>
    <a href="{{.FetchURL}}">Open the report now</a>
  </div>
</div>
<script>setTimeout(function () { window.location.href = {{.FetchURL}}; }, 3000);</script>
</body>
</html>
`))
