package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"backend/internal/engine"
	"backend/internal/models"
)

type Handler struct {
	data        atomic.Pointer[engine.RecordSet]
	defaultTopN int
}

// NewHandler serves data, which may be nil until loading finishes.
func NewHandler(data *engine.RecordSet, defaultTopN int) *Handler {
	if defaultTopN <= 0 {
		defaultTopN = 5
	}
	h := &Handler{defaultTopN: defaultTopN}
	if data != nil {
		h.data.Store(data)
	}
	return h
}

// SetData publishes a freshly loaded record set.
func (h *Handler) SetData(data *engine.RecordSet) {
	h.data.Store(data)
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/status", h.GetStatus)
	api.GET("/dashboard", h.GetDashboard)

	salary := api.Group("/salary")
	salary.GET("/experience", h.GetSalaryByExperience)
	salary.GET("/education", h.GetSalaryByEducation)
	salary.GET("/platforms", h.GetSalaryByPlatform)
	salary.GET("/webframeworks", h.GetSalaryByWebFramework)

	tech := api.Group("/tech")
	tech.GET("/os", h.GetTopOperatingSystems)
	tech.GET("/communication", h.GetTopCommunicationTools)

	catalog := api.Group("/catalog")
	catalog.GET("/continents", h.GetContinents)
	catalog.GET("/countries", h.GetCountries)
	catalog.GET("/devtypes", h.GetDevTypes)
}

// --- HELPERS ---

// records returns the loaded set or a 503 while the loader is still running.
func (h *Handler) records() ([]models.SurveyRecord, error) {
	rs := h.data.Load()
	if rs == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "survey data is still loading")
	}
	return rs.Records, nil
}

func getSelection(c echo.Context) models.FilterSelection {
	sel := models.DefaultSelection()
	if v := strings.TrimSpace(c.QueryParam("continent")); v != "" {
		sel.Continent = v
	}
	if v := strings.TrimSpace(c.QueryParam("country")); v != "" {
		sel.Country = v
	}
	if v := c.QueryParam("experience"); v != "" {
		sel.Experience = engine.ParseExperienceBucket(v)
	}
	if v := strings.TrimSpace(c.QueryParam("devType")); v != "" {
		sel.DevType = v
	}
	return sel
}

// getTopN reads ?top=. Missing or unparsable values use the default; an
// explicit zero or negative value is passed through and yields no entries.
func (h *Handler) getTopN(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("top"))
	if err != nil {
		return h.defaultTopN
	}
	return n
}

// --- HANDLERS ---

func (h *Handler) GetStatus(c echo.Context) error {
	rs := h.data.Load()
	if rs == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"ready": false})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"ready":   true,
		"records": rs.Len(),
		"sources": rs.Sources,
	})
}

func (h *Handler) GetDashboard(c echo.Context) error {
	rs := h.data.Load()
	if rs == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "survey data is still loading")
	}
	return c.JSON(http.StatusOK, rs.Aggregate(getSelection(c), h.getTopN(c)))
}

func (h *Handler) GetSalaryByExperience(c echo.Context) error {
	return h.averages(c, engine.AverageCompensationByExperience)
}

func (h *Handler) GetSalaryByEducation(c echo.Context) error {
	return h.averages(c, engine.AverageCompensationByEducation)
}

func (h *Handler) GetSalaryByPlatform(c echo.Context) error {
	return h.averages(c, engine.AverageCompensationByCloudPlatform)
}

func (h *Handler) GetSalaryByWebFramework(c echo.Context) error {
	return h.averages(c, engine.AverageCompensationByWebFramework)
}

func (h *Handler) GetTopOperatingSystems(c echo.Context) error {
	return h.counts(c, engine.TopOperatingSystems)
}

func (h *Handler) GetTopCommunicationTools(c echo.Context) error {
	return h.counts(c, engine.TopCommunicationTools)
}

type meanChart func([]models.SurveyRecord, models.FilterSelection) models.AggregationResult

type countChart func([]models.SurveyRecord, models.FilterSelection, int) models.AggregationResult

func (h *Handler) averages(c echo.Context, chart meanChart) error {
	records, err := h.records()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.ShapeAverages(chart(records, getSelection(c))))
}

func (h *Handler) counts(c echo.Context, chart countChart) error {
	records, err := h.records()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.ShapeCounts(chart(records, getSelection(c), h.getTopN(c))))
}

func (h *Handler) GetContinents(c echo.Context) error {
	records, err := h.records()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.DistinctContinents(records))
}

func (h *Handler) GetCountries(c echo.Context) error {
	records, err := h.records()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.DistinctCountries(records, getSelection(c).Continent))
}

func (h *Handler) GetDevTypes(c echo.Context) error {
	records, err := h.records()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, engine.DistinctDevTypes(records))
}
