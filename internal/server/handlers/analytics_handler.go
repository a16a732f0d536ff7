package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
	"github.com/mamadbah2/aquafarm/internal/service/reporting"
)

// Optimizer runs the optimization pipeline.
type Optimizer interface {
	Optimize(ctx context.Context, req models.FunctionRequest) (analytics.Analysis, error)
}

// ReportGenerator builds period reports.
type ReportGenerator interface {
	Handle(ctx context.Context, req models.FunctionRequest) (reporting.Result, error)
}

// Benchmarker answers benchmarking actions.
type Benchmarker interface {
	Handle(ctx context.Context, req models.FunctionRequest) (any, error)
}

// AnalyticsHandler exposes the analytics functions over HTTP.
type AnalyticsHandler struct {
	optimizer   Optimizer
	reports     ReportGenerator
	benchmarker Benchmarker
	logger      *zap.Logger
}

// NewAnalyticsHandler constructs the HTTP handler adapter.
func NewAnalyticsHandler(optimizer Optimizer, reports ReportGenerator, benchmarker Benchmarker, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{optimizer: optimizer, reports: reports, benchmarker: benchmarker, logger: logger}
}

// Optimize answers POST /functions/v1/farm-optimizer.
func (h *AnalyticsHandler) Optimize(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	analysis, err := h.optimizer.Optimize(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "farm optimizer failed", req, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": analysis})
}

// GenerateReport answers POST /functions/v1/generate-report.
func (h *AnalyticsHandler) GenerateReport(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	res, err := h.reports.Handle(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "report generation failed", req, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"report":       res.Report,
		"html":         res.HTML,
		"generated_at": res.GeneratedAt,
	})
}

// Benchmark answers POST /functions/v1/benchmarking.
func (h *AnalyticsHandler) Benchmark(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	data, err := h.benchmarker.Handle(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "benchmarking failed", req, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "action": req.Action, "data": data})
}

func (h *AnalyticsHandler) bind(c *gin.Context) (models.FunctionRequest, bool) {
	var req models.FunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return req, false
	}
	return req, true
}

// fail reports input errors as 400 and everything else as 500.
func (h *AnalyticsHandler) fail(c *gin.Context, msg string, req models.FunctionRequest, err error) {
	status := http.StatusInternalServerError
	var ie *analytics.InputError
	if errors.As(err, &ie) {
		status = http.StatusBadRequest
	}

	fields := []zap.Field{
		zap.String("account_id", req.AccountID),
		zap.Int("status", status),
		zap.Error(err),
	}
	if id, ok := c.Get(RequestIDKey); ok {
		fields = append(fields, zap.Any("request_id", id))
	}
	if status == http.StatusBadRequest {
		h.logger.Warn(msg, fields...)
	} else {
		h.logger.Error(msg, fields...)
	}

	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
