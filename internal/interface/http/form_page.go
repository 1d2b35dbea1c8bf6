package http

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/yanqian/hiking-guide/internal/domain/safetyform"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.New("form.html").Funcs(template.FuncMap{
	"score": func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
}).ParseFS(templateFS, "templates/form.html"))

type formView struct {
	safetyform.State
	Disabled    bool
	ButtonLabel string
}

func renderFormPage(w io.Writer, state safetyform.State) error {
	label := "Get safety advice"
	if state.Loading {
		label = "Analyzing..."
	}
	return formTemplate.Execute(w, formView{
		State:       state,
		Disabled:    state.Loading,
		ButtonLabel: label,
	})
}
