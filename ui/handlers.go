package ui

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bankinfer/app"
	"bankinfer/domain/stats"
	"bankinfer/internal/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDataset(c *gin.Context) {
	overview, err := s.deps.Descriptives.Overview(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleCatalog(c *gin.Context) {
	catalog, err := s.deps.Inference.Catalog(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (s *Server) handleDescribe(c *gin.Context) {
	req, err := describeRequest(c.Query("columns"), c.Query("row"), c.Query("col"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	report, err := s.deps.Descriptives.Describe(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleInference(c *gin.Context) {
	var sel stats.Selection
	var err error
	if c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&sel)
	} else {
		err = c.ShouldBindQuery(&sel)
	}
	if err != nil {
		s.respondError(c, errors.InvalidInput("malformed selection: "+err.Error()))
		return
	}

	bundle, err := s.deps.Inference.Run(c.Request.Context(), sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// respondError maps taxonomy errors to 422 advisories and everything else to
// an error body with a matching status
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusUnprocessableEntity {
		c.JSON(status, gin.H{"advisory": errors.Advise("", err)})
		return
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": gin.H{"code": errors.GetCode(err), "message": err.Error()}})
}

func statusFor(err error) int {
	switch {
	case errors.IsTaxonomy(err):
		return http.StatusUnprocessableEntity
	case errors.GetCode(err) == errors.CodeInvalidInput:
		return http.StatusBadRequest
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.GetCode(err) == errors.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// describeRequest parses the describe query parameters shared by both surfaces
func describeRequest(columns, row, col string) (app.DescribeRequest, error) {
	req := app.DescribeRequest{CrossRow: strings.TrimSpace(row), CrossCol: strings.TrimSpace(col)}
	if (req.CrossRow == "") != (req.CrossCol == "") {
		return req, errors.InvalidInput("row and col must be given together")
	}
	for _, name := range strings.Split(columns, ",") {
		if name = strings.TrimSpace(name); name != "" {
			req.Correlate = append(req.Correlate, name)
		}
	}
	return req, nil
}
