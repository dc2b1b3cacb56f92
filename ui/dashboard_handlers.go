package ui

import (
	"html/template"
	"net/http"

	"bankinfer/adapters/stats/describe"
	"bankinfer/app"
	"bankinfer/domain/stats"
	"bankinfer/internal/errors"
)

type pageData struct {
	Title     string
	Overview  *app.Overview
	Catalog   *stats.Catalog
	Selection stats.Selection
	Bundle    *stats.Bundle
	Report    *describe.Report
	Advisory  *stats.Advisory
	Error     string
	Notes     template.HTML
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	overview, err := a.deps.Descriptives.Overview(r.Context())
	if err != nil {
		a.renderError(w, err)
		return
	}
	catalog, err := a.deps.Inference.Catalog(r.Context())
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, http.StatusOK, "index.html", pageData{
		Title:     "Dataset overview",
		Overview:  overview,
		Catalog:   catalog,
		Selection: stats.Selection{Mode: stats.ModeProportion},
	})
}

func (a *App) handleInference(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := stats.Selection{
		Mode:    stats.Mode(q.Get("mode")),
		Group:   q.Get("group"),
		LevelA:  q.Get("level_a"),
		LevelB:  q.Get("level_b"),
		Numeric: q.Get("numeric"),
	}

	data := pageData{Title: "Inference", Selection: sel}
	if catalog, err := a.deps.Inference.Catalog(r.Context()); err == nil {
		data.Catalog = catalog
	}

	bundle, err := a.deps.Inference.Run(r.Context(), sel)
	if err != nil {
		status := statusFor(err)
		if status != http.StatusUnprocessableEntity && status != http.StatusBadRequest {
			a.renderError(w, err)
			return
		}
		advisory := errors.Advise("", err)
		data.Advisory = &advisory
		a.renderTemplate(w, status, "inference.html", data)
		return
	}
	data.Bundle = bundle
	data.Selection = bundle.Selection
	a.renderTemplate(w, http.StatusOK, "inference.html", data)
}

func (a *App) handleDescribe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := describeRequest(q.Get("columns"), q.Get("row"), q.Get("col"))
	if err != nil {
		a.renderError(w, err)
		return
	}
	report, err := a.deps.Descriptives.Describe(r.Context(), req)
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, http.StatusOK, "describe.html", pageData{Title: "Descriptive statistics", Report: report})
}

func (a *App) handleNotes(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, http.StatusOK, "notes.html", pageData{Title: "Methodology", Notes: a.notes})
}

func (a *App) renderError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("page failed: %v", err)
	}
	a.renderTemplate(w, status, "error.html", pageData{Title: "Error", Error: err.Error()})
}
