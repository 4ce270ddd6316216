package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ActivityLogger keeps a per-day JSON record of analysis requests. It is
// operational history only; computed prices are not stored.
type ActivityLogger struct {
	logger *logrus.Logger
	logDir string
	mu     sync.Mutex
}

// AnalysisActivity is one recorded request.
type AnalysisActivity struct {
	Timestamp    time.Time `json:"timestamp"`
	Symbol       string    `json:"symbol"`
	Expiration   string    `json:"expiration"`
	ContractType string    `json:"contract_type"`
	Status       string    `json:"status"`
	Results      int       `json:"results"`
	Skipped      int       `json:"skipped"`
	DurationMs   int64     `json:"duration_ms"`
}

// NewActivityLogger creates an activity logger writing under logDir.
func NewActivityLogger(logDir string) *ActivityLogger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger.WithError(err).Error("Failed to create activity log directory")
	}

	return &ActivityLogger{
		logger: logger,
		logDir: logDir,
	}
}

// Record appends one request to today's activity file.
func (al *ActivityLogger) Record(activity AnalysisActivity) error {
	al.mu.Lock()
	defer al.mu.Unlock()

	date := activity.Timestamp.Format("2006-01-02")
	entries, err := al.readFile(date)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	entries = append(entries, activity)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal activity log: %w", err)
	}
	if err := os.WriteFile(al.filename(date), data, 0644); err != nil {
		return fmt.Errorf("failed to write activity log: %w", err)
	}

	al.logger.WithFields(logrus.Fields{
		"symbol": activity.Symbol,
		"status": activity.Status,
	}).Info("Activity recorded")
	return nil
}

// GetForDate returns the recorded requests for a date (format 2006-01-02).
func (al *ActivityLogger) GetForDate(date string) ([]AnalysisActivity, error) {
	al.mu.Lock()
	defer al.mu.Unlock()

	entries, err := al.readFile(date)
	if err != nil {
		if os.IsNotExist(err) {
			return []AnalysisActivity{}, nil
		}
		return nil, err
	}
	return entries, nil
}

// ListDates returns the dates that have activity files.
func (al *ActivityLogger) ListDates() ([]string, error) {
	files, err := os.ReadDir(al.logDir)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0)
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		// activity_2026-08-26.json
		name := file.Name()
		if len(name) == len("activity_2006-01-02.json") && name[:9] == "activity_" {
			dates = append(dates, name[9:len(name)-5])
		}
	}
	return dates, nil
}

func (al *ActivityLogger) filename(date string) string {
	return filepath.Join(al.logDir, fmt.Sprintf("activity_%s.json", date))
}

func (al *ActivityLogger) readFile(date string) ([]AnalysisActivity, error) {
	data, err := os.ReadFile(al.filename(date))
	if err != nil {
		return nil, err
	}
	var entries []AnalysisActivity
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse activity log: %w", err)
	}
	return entries, nil
}
