package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/vtkl/grant-radar/internal/auth"
	"github.com/vtkl/grant-radar/internal/evaluator"
	"github.com/vtkl/grant-radar/internal/models"
	"github.com/vtkl/grant-radar/internal/report"
	"github.com/vtkl/grant-radar/internal/scoring"
	"github.com/vtkl/grant-radar/internal/timeline"
)

// Server exposes the evaluation pipeline over HTTP. It holds only immutable
// configuration, so there is no store and no per-request state.
type Server struct {
	Echo      *echo.Echo
	Evaluator *evaluator.Evaluator
}

func NewServer(ev *evaluator.Evaluator) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{Echo: e, Evaluator: ev}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.Use(auth.Middleware)
	api.POST("/evaluate", s.handleEvaluate)
	api.POST("/evaluate/batch", s.handleEvaluateBatch)
	api.POST("/report", s.handleReport)
	api.POST("/timeline", s.handleTimeline)
	api.GET("/weights/presets", s.handleWeightPresets)
	api.GET("/profile", s.handleProfile)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleEvaluate(c echo.Context) error {
	var opp models.Opportunity
	if err := c.Bind(&opp); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ev, err := s.Evaluator.Evaluate(opp, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, ev)
}

type batchResponse struct {
	Results []evaluator.Evaluation `json:"results"`
	Summary evaluator.RunSummary   `json:"summary"`
}

func (s *Server) handleEvaluateBatch(c echo.Context) error {
	var opps []models.Opportunity
	if err := c.Bind(&opps); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	results, summary, err := s.Evaluator.EvaluateBatch(c.Request().Context(), opps, time.Now().UTC())
	if err != nil {
		c.Logger().Errorf("Batch evaluation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, batchResponse{Results: results, Summary: summary})
}

func (s *Server) handleReport(c echo.Context) error {
	var opp models.Opportunity
	if err := c.Bind(&opp); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ev, err := s.Evaluator.Evaluate(opp, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, report.Generate(ev))
}

func (s *Server) handleTimeline(c echo.Context) error {
	var opp models.Opportunity
	if err := c.Bind(&opp); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if opp.ResponseDeadline == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "response_deadline is required"})
	}

	roadmap := timeline.Calculate(
		opp.Source, opp.SourceOpportunityID,
		*opp.ResponseDeadline, opp.OpportunityType,
		time.Now().UTC(),
	)
	return c.JSON(http.StatusOK, roadmap)
}

func (s *Server) handleWeightPresets(c echo.Context) error {
	return c.JSON(http.StatusOK, scoring.Presets())
}

func (s *Server) handleProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Evaluator.Profile)
}
