// Package app wires configuration, clients, services, and session state.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marketbrief/marketbrief/internal/clients/angel"
	"github.com/marketbrief/marketbrief/internal/clients/gemini"
	"github.com/marketbrief/marketbrief/internal/clients/gnews"
	"github.com/marketbrief/marketbrief/internal/common"
	"github.com/marketbrief/marketbrief/internal/interfaces"
	"github.com/marketbrief/marketbrief/internal/services/analysis"
	"github.com/marketbrief/marketbrief/internal/services/news"
	"github.com/marketbrief/marketbrief/internal/services/portfolio"
	"github.com/marketbrief/marketbrief/internal/session"
)

// App holds all initialized services, clients, and the broker session.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	BrokerClient     interfaces.BrokerClient
	GeminiClient     interfaces.GeminiClient
	FeedClient       interfaces.FeedClient
	PortfolioService interfaces.PortfolioService
	NewsService      interfaces.NewsService
	AnalysisService  interfaces.AnalysisService
	Session          *session.Session
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all clients and services. configPath may be empty, in
// which case BRIEF_CONFIG and then the binary directory are checked.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("BRIEF_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "brief.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/brief.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	brokerClient := angel.NewClient(
		angel.WithBaseURL(config.Clients.Broker.BaseURL),
		angel.WithRateLimit(config.Clients.Broker.RateLimit),
		angel.WithTimeout(config.Clients.Broker.GetTimeout()),
		angel.WithLogger(logger),
	)

	feedClient := gnews.NewClient(
		gnews.WithBaseURL(config.Clients.Feed.BaseURL),
		gnews.WithTimeout(config.Clients.Feed.GetTimeout()),
		gnews.WithLogger(logger),
	)

	// The Gemini client is optional: without an API key the analyze
	// endpoint reports configuration_missing instead of failing startup.
	var geminiClient interfaces.GeminiClient
	if config.Clients.Gemini.APIKey != "" {
		gc, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		geminiClient = gc
	} else {
		logger.Warn().Msg("Gemini API key not configured - article analysis will be unavailable")
	}

	portfolioService := portfolio.NewService(brokerClient, logger)

	newsService := news.NewService(feedClient, logger,
		news.WithMaxItems(config.News.MaxItems),
		news.WithRetention(config.News.RetentionWindow()),
		news.WithQuerySuffix(config.Clients.Feed.QuerySuffix),
	)

	extractor := analysis.NewExtractor(
		analysis.WithFetchTimeout(config.Analysis.GetFetchTimeout()),
		analysis.WithUserAgent(config.Analysis.UserAgent),
	)
	analysisService := analysis.NewService(geminiClient, extractor, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("broker", config.Clients.Broker.BaseURL).
		Bool("gemini", geminiClient != nil).
		Msg("Application initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		BrokerClient:     brokerClient,
		GeminiClient:     geminiClient,
		FeedClient:       feedClient,
		PortfolioService: portfolioService,
		NewsService:      newsService,
		AnalysisService:  analysisService,
		Session:          session.New(),
		StartupTime:      time.Now(),
	}, nil
}
