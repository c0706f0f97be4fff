package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chart-digitizer/config"
	app "chart-digitizer/internal/application"
	"chart-digitizer/internal/domain/entity"
	apperrors "chart-digitizer/internal/errors"
	"chart-digitizer/internal/logger"
)

// AnalysisService операции, которые HTTP API вызывает у слоя приложения
type AnalysisService interface {
	Digitize(ctx context.Context, req app.DigitizeRequest) (*entity.Analysis, error)
	Get(ctx context.Context, id string) (*entity.Analysis, error)
	List(ctx context.Context, userID int64) ([]*entity.Analysis, error)
	Delete(ctx context.Context, id string) error
}

type DigitizeResponse struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Bars          []entity.Bar `json:"bars"`
	Total1        float64      `json:"total1"`
	Total2        float64      `json:"total2"`
	AnalyzedImage string       `json:"analyzed_image"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func NewHandler(svc AnalysisService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(requestSizeLimiter(cfg.MaxRequestBodySize))

	r.GET("/health", healthCheck)
	if cfg.StorageBackend == config.StorageLocal && cfg.MediaURL != "" {
		r.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	api := r.Group("/api")
	api.POST("/digitize", digitizeChart(svc, cfg.RequestTimeout))
	api.GET("/analyses", listAnalyses(svc))
	api.GET("/analyses/:id", getAnalysis(svc))
	api.DELETE("/analyses/:id", deleteAnalysis(svc))

	return r
}

func digitizeChart(svc AnalysisService, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing digitization request")

		req, err := bindDigitizeRequest(c)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid request", err)
			return
		}

		analysis, err := svc.Digitize(ctx, req)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "digitization failed", err)
			return
		}

		resp := DigitizeResponse{
			ID:            analysis.ID,
			Title:         analysis.Title,
			Bars:          []entity.Bar{},
			AnalyzedImage: analysis.AnnotatedRef,
		}
		if analysis.Result != nil {
			if analysis.Result.Bars != nil {
				resp.Bars = analysis.Result.Bars
			}
			resp.Total1 = analysis.Result.Total1
			resp.Total2 = analysis.Result.Total2
		}

		logger.WithFields(logrus.Fields{
			"analysis_id":        analysis.ID,
			"bars":               len(resp.Bars),
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Digitization completed successfully")

		c.JSON(http.StatusOK, resp)
	}
}

func bindDigitizeRequest(c *gin.Context) (app.DigitizeRequest, error) {
	var req app.DigitizeRequest

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return req, apperrors.NewValidationError("image is required", err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return req, apperrors.NewValidationError("failed to open image", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, apperrors.NewValidationError("failed to read image", err)
	}

	coords := make(map[string]int, 4)
	for _, name := range []string{"x1", "y1", "x2", "y2"} {
		v, err := formInt(c, name, true, 0)
		if err != nil {
			return req, err
		}
		if v < 0 {
			return req, apperrors.NewValidationError(fmt.Sprintf("%s must be non-negative", name), nil)
		}
		coords[name] = v
	}
	p1, err := formInt(c, "p1_value", false, 0)
	if err != nil {
		return req, err
	}
	p2, err := formInt(c, "p2_value", true, 0)
	if err != nil {
		return req, err
	}

	req.Title = strings.TrimSpace(c.PostForm("title"))
	req.ImageName = fileHeader.Filename
	req.Image = data
	req.Calibration = entity.NewCalibration(coords["x1"], coords["y1"], coords["x2"], coords["y2"], p1, p2)
	return req, nil
}

func formInt(c *gin.Context, name string, required bool, def int) (int, error) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		if required {
			return 0, apperrors.NewValidationError(fmt.Sprintf("%s is required", name), nil)
		}
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be an integer", name), err)
	}
	return v, nil
}

func listAnalyses(svc AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID int64
		if raw := c.Query("user_id"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid user_id", err)
				return
			}
			userID = v
		}

		analyses, err := svc.List(c.Request.Context(), userID)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to list analyses", err)
			return
		}
		if analyses == nil {
			analyses = []*entity.Analysis{}
		}
		c.JSON(http.StatusOK, analyses)
	}
}

func getAnalysis(svc AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		analysis, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to get analysis", err)
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}

func deleteAnalysis(svc AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to delete analysis", err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "available",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
