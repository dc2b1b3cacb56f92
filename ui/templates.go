package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strings"
)

var funcMap = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", 100*v) },
	"num": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"pval": func(p float64) string {
		if p < 1e-4 {
			return "< 0.0001"
		}
		return fmt.Sprintf("%.4f", p)
	},
	"opt": func(v *float64) string {
		if v == nil || math.IsNaN(*v) {
			return "n/a"
		}
		return fmt.Sprintf("%.4f", *v)
	},
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}

func parseTemplates(files fs.FS) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(files, "templates/*.html")
}

// renderTemplate executes into a buffer first so a failing template never
// leaves a half-written page behind
func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("template %s failed: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("writing %s: %v", templateName, err)
	}
}
