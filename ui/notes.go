package ui

import (
	"html/template"
	"io/fs"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderNotes converts an embedded markdown document to HTML once at startup
func renderNotes(files fs.FS, name string) (template.HTML, error) {
	src, err := fs.ReadFile(files, name)
	if err != nil {
		return "", err
	}
	return template.HTML(markdownToHTML(src)), nil
}

func markdownToHTML(src []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML(markdown.NormalizeNewlines(src), p, r)
}
