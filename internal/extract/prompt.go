// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"text/template"

	"github.com/daviddl9/inquire/pkg/types"
)

const extractionSystemPrompt = `You are a structured data extraction system. You read research text and respond with a single JSON object and nothing else.`

// extractionPromptTmpl is the prompt sent to the model for one extraction
// call. It lists the return class's fields so the model can fill them in.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`{{if .Instructions}}{{.Instructions}}

{{end}}Extract a "{{.Class.Name}}" record from the research text below.
{{- if .Class.Description}}
{{.Class.Description}}
{{- end}}

Fields:
{{range .Class.Fields}}- {{.Name}} ({{.Type}}{{if .Required}}, required{{end}}){{if .Description}}: {{.Description}}{{end}}
{{end}}
Types: string, int, float and bool are JSON scalars; a type ending in "[]" is a
JSON array of that type; any other type name is a nested object of that class.
{{- range .Nested}}

Class "{{.Name}}" fields:
{{range .Fields}}- {{.Name}} ({{.Type}}{{if .Required}}, required{{end}}){{if .Description}}: {{.Description}}{{end}}
{{end}}
{{- end}}

Respond with a JSON object only. Use null for optional fields the text does not
mention. Do not include any text outside the JSON object.

Research text:
{{.Text}}
`))

type promptData struct {
	Instructions string
	Class        types.ClassDef
	Nested       []types.ClassDef
	Text         string
}

// renderPrompt executes the extraction template.
func renderPrompt(data promptData) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
