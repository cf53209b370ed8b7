package notifications

import (
	"bytes"
	"html/template"
	"strings"

	"portfolio-backend/internal/portfolio"
)

const testimonialPendingTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>A new testimonial was submitted on the portfolio site.</p>
  <ul>
    <li>Client: {{.ClientName}}</li>
    <li>Role: {{.Role}} at {{.Company}}</li>
    {{- if .Project}}
    <li>Project: {{.Project}}</li>
    {{- end}}
    <li>Rating: {{.Stars}} ({{.Rating}}/5)</li>
  </ul>
  <blockquote>{{.Message}}</blockquote>
  <p>It stays hidden until you approve it in the dashboard.</p>
</body>
</html>`

var testimonialPendingTmpl = template.Must(template.New("testimonial_pending").Parse(testimonialPendingTemplate))

type testimonialPendingData struct {
	portfolio.Testimonial
	Stars string
}

func buildTestimonialPendingHTML(t portfolio.Testimonial) (string, error) {
	rating := t.Rating
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	data := testimonialPendingData{
		Testimonial: t,
		Stars:       strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating),
	}
	var buf bytes.Buffer
	if err := testimonialPendingTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
