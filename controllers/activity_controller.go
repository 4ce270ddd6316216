package controllers

import (
	"net/http"
	"time"

	"optionscope/services"

	"github.com/gin-gonic/gin"
)

// ActivityController exposes the recorded request activity.
type ActivityController struct {
	activityLogger *services.ActivityLogger
}

// NewActivityController creates a new activity controller.
func NewActivityController(activityLogger *services.ActivityLogger) *ActivityController {
	return &ActivityController{
		activityLogger: activityLogger,
	}
}

// HandleGetActivity returns recorded requests for a date (default today)
// GET /api/v1/activity?date=2026-08-26
func (avc *ActivityController) HandleGetActivity(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid date",
			"details": err.Error(),
		})
		return
	}

	entries, err := avc.activityLogger.GetForDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read activity log",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       date,
		"count":      len(entries),
		"activities": entries,
	})
}

// HandleListActivityDates lists dates with recorded activity
// GET /api/v1/activity/dates
func (avc *ActivityController) HandleListActivityDates(c *gin.Context) {
	dates, err := avc.activityLogger.ListDates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list activity logs",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(dates),
		"dates": dates,
	})
}
