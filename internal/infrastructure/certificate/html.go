package certificate

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

var printTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Certificate - {{.RecipientName}} - {{.CourseTitle}}</title>
<style>
@page { size: A4 landscape; margin: 0; }
body { margin: 0; font-family: Georgia, serif; color: #1e1b4b; }
.page { box-sizing: border-box; width: 297mm; height: 210mm; padding: 18mm; border: 6px double #4f46e5; text-align: center; }
.issuer { letter-spacing: .2em; text-transform: uppercase; color: #4f46e5; }
h1 { font-size: 34pt; margin: 10mm 0 6mm; }
.name { font-size: 38pt; font-weight: bold; margin: 4mm 0; }
.course { font-size: 24pt; color: #4f46e5; font-weight: bold; }
.muted { color: #6b7280; font-style: italic; }
.footer { display: flex; justify-content: space-around; margin-top: 18mm; }
.footer div { border-top: 1px solid #1e1b4b; padding-top: 2mm; min-width: 70mm; }
</style>
</head>
<body onload="window.print()">
<div class="page">
  <div class="issuer">{{.Issuer}}</div>
  <h1>CERTIFICATE OF COMPLETION</h1>
  <p class="muted">This is to certify that</p>
  <p class="name">{{.RecipientName}}</p>
  <p class="muted">has successfully completed the course</p>
  <p class="course">{{.CourseTitle}}</p>
  {{if .Instructor}}<p class="muted">Instructor: {{.Instructor}}</p>{{end}}
  <div class="footer">
    <div>{{.IssueDate}}<br><small>Date of issue</small></div>
    <div>{{.Issuer}}<br><small>Issued by</small></div>
  </div>
</div>
</body>
</html>
`))

// HTMLRenderer produces a printable page; it is the fallback when the image
// renderer fails.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(ctx context.Context, cert domain.Certificate) (*ports.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, cert); err != nil {
		return nil, fmt.Errorf("render printable certificate: %w", err)
	}
	return &ports.Document{
		Filename:    Filename(cert, "html"),
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}
