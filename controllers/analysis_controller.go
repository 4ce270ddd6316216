package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"optionscope/pricing"
	"optionscope/services"

	"github.com/gin-gonic/gin"
)

// AnalysisController handles option chain analysis requests.
type AnalysisController struct {
	analysisService *services.ChainAnalysisService
	activityLogger  *services.ActivityLogger
	defaultRate     float64
}

// NewAnalysisController creates a new analysis controller. defaultRate is
// the risk-free rate used when the request doesn't supply one.
func NewAnalysisController(analysisService *services.ChainAnalysisService, activityLogger *services.ActivityLogger, defaultRate float64) *AnalysisController {
	return &AnalysisController{
		analysisService: analysisService,
		activityLogger:  activityLogger,
		defaultRate:     defaultRate,
	}
}

// HandleGetExpirations lists available expiration dates
// GET /api/v1/expirations/:symbol
func (ac *AnalysisController) HandleGetExpirations(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "symbol required",
		})
		return
	}

	expirations, err := ac.analysisService.Expirations(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch expirations",
			"details": err.Error(),
		})
		return
	}

	dates := make([]string, len(expirations))
	for i, exp := range expirations {
		dates[i] = exp.Format("2006-01-02")
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":      symbol,
		"count":       len(dates),
		"expirations": dates,
	})
}

// HandleAnalyzeChain runs one evaluation pass
// GET /api/v1/analysis/:symbol?expiry=2026-09-18&rate=0.05&type=call
func (ac *AnalysisController) HandleAnalyzeChain(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "symbol required",
		})
		return
	}

	expiryParam := c.Query("expiry")
	if expiryParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "expiry query parameter required (format 2006-01-02)",
		})
		return
	}
	expiry, err := time.Parse("2006-01-02", expiryParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid expiry date",
			"details": err.Error(),
		})
		return
	}

	rate := ac.defaultRate
	if rateParam := c.Query("rate"); rateParam != "" {
		rate, err = strconv.ParseFloat(rateParam, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid rate",
				"details": err.Error(),
			})
			return
		}
	}

	contractType := c.DefaultQuery("type", services.TypeBoth)
	if contractType != services.TypeCall && contractType != services.TypePut && contractType != services.TypeBoth {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "type must be call, put or both",
		})
		return
	}

	start := time.Now()
	analysis, err := ac.analysisService.Analyze(c.Request.Context(), symbol, expiry, rate, contractType)
	if err != nil {
		ac.recordActivity(symbol, expiryParam, contractType, "error", nil, start)

		var perr *pricing.InvalidParameterError
		if errors.As(err, &perr) || errors.Is(err, pricing.ErrInsufficientData) || errors.Is(err, pricing.ErrInvalidData) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "computation error",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "market data unavailable",
			"details": err.Error(),
		})
		return
	}

	ac.recordActivity(symbol, expiryParam, contractType, analysis.Status, analysis, start)
	c.JSON(http.StatusOK, analysis)
}

func (ac *AnalysisController) recordActivity(symbol, expiration, contractType, status string, analysis *services.ChainAnalysis, start time.Time) {
	if ac.activityLogger == nil {
		return
	}
	activity := services.AnalysisActivity{
		Timestamp:    start,
		Symbol:       symbol,
		Expiration:   expiration,
		ContractType: contractType,
		Status:       status,
		DurationMs:   time.Since(start).Milliseconds(),
	}
	if analysis != nil {
		activity.Results = len(analysis.Results)
		activity.Skipped = len(analysis.Skipped)
	}
	// Activity logging is best effort; never fail the request over it.
	_ = ac.activityLogger.Record(activity)
}
