package main

import (
	"os"
	"strconv"

	"optionscope/controllers"
	"optionscope/database"
	"optionscope/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		logger.Fatal("ALPACA_API_KEY and ALPACA_SECRET_KEY must be set")
	}

	defaultRate := 0.05
	if rateEnv := os.Getenv("DEFAULT_RISK_FREE_RATE"); rateEnv != "" {
		parsed, err := strconv.ParseFloat(rateEnv, 64)
		if err != nil {
			logger.WithError(err).Fatal("Invalid DEFAULT_RISK_FREE_RATE")
		}
		defaultRate = parsed
	}

	storage, err := database.NewLocalStorage(getenvDefault("DB_PATH", "data/market.db"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to open bar cache")
	}
	defer storage.Close()

	provider := services.NewAlpacaMarketData(apiKey, secretKey, storage)
	analysisService := services.NewChainAnalysisService(provider)
	activityLogger := services.NewActivityLogger(getenvDefault("ACTIVITY_LOG_DIR", "logs"))

	analysisController := controllers.NewAnalysisController(analysisService, activityLogger, defaultRate)
	activityController := controllers.NewActivityController(activityLogger)

	router := gin.Default()
	v1 := router.Group("/api/v1")
	v1.GET("/expirations/:symbol", analysisController.HandleGetExpirations)
	v1.GET("/analysis/:symbol", analysisController.HandleAnalyzeChain)
	v1.GET("/activity", activityController.HandleGetActivity)
	v1.GET("/activity/dates", activityController.HandleListActivityDates)

	port := getenvDefault("PORT", "8080")
	logger.WithField("port", port).Info("Starting option chain analyzer")
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
