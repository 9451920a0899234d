package service

import (
	"strings"
	"text/template"
)

type forwardData struct {
	Title       string
	Description string
	Message     string
	Sender      string
}

var forwardTmpl = template.Must(template.New("forward").Parse(`Hello,

I am forwarding the document "{{.Title}}" for your reference.

Description: {{.Description}}
{{- if .Message}}

{{.Message}}
{{- end}}

Best regards,
{{if .Sender}}{{.Sender}}{{else}}DocuSafe{{end}}
`))

func renderForward(d forwardData) (string, error) {
	var b strings.Builder
	if err := forwardTmpl.Execute(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}
