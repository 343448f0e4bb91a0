package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunsizer/sunsizer/internal/analysis"
	"github.com/sunsizer/sunsizer/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.cfg.AppName,
		"version": s.cfg.AppVersion,
		"endpoints": []string{
			"GET /health",
			"GET /metadata",
			"POST /analyze",
			"POST /export/xlsx",
			"GET /metrics",
		},
	})
}

func (s *Server) getMetadata(c *gin.Context) {
	c.JSON(http.StatusOK, s.analysisSvc.Metadata())
}

func (s *Server) postAnalyze(c *gin.Context) {
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}

	resp, err := s.analysisSvc.Analyze(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) postExportXLSX(c *gin.Context) {
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}

	resp, err := s.analysisSvc.Analyze(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := export.XLSX(resp)
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInternal, err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="sunsizer_analysis.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, payload)
}

func bindAnalyzeRequest(c *gin.Context) (analysis.Request, bool) {
	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return analysis.Request{}, false
	}
	return req, true
}
