package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/zincstore/zincstore/internal/app"
	"github.com/zincstore/zincstore/internal/webserver"
	"github.com/zincstore/zincstore/pkg/metrics"
)

var historyMetrics = map[string]bool{
	app.MetricTodaySales:    true,
	app.MetricTodayExpenses: true,
	app.MetricNetIncome:     true,
}

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard", getDashboard)
	webserver.ApiGET("/dashboard/stats", getSalesStatistics)
	webserver.ApiGET("/dashboard/history", getMetricHistory)
}

// getDashboard returns today's and all-time figures, recomputed on every call
func getDashboard(c echo.Context) error {
	day, err := parseDateParam(c, "date")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date", err.Error())
	}
	dash, err := GetSession(c).Dashboard(c.Request().Context(), day)
	if err != nil {
		return handleLedgerError(c, err)
	}
	return ok(c, dash)
}

func getSalesStatistics(c echo.Context) error {
	day, err := parseDateParam(c, "date")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse date", err.Error())
	}
	st, err := GetSession(c).SalesStatistics(c.Request().Context(), day)
	if err != nil {
		return handleLedgerError(c, err)
	}
	return ok(c, st)
}

// getMetricHistory returns the recorded gauge values (in cents) of the last hours
func getMetricHistory(c echo.Context) error {
	name := c.QueryParam("metric")
	if name == "" {
		name = app.MetricTodaySales
	}
	if !historyMetrics[name] {
		return fail(c, http.StatusBadRequest, "INVALID_METRIC", "Unknown metric", name)
	}
	hours, _ := strconv.Atoi(c.QueryParam("hours"))
	if hours < 1 || hours > 24*400 {
		hours = 24
	}

	to := time.Now().Add(time.Second)
	points, err := metrics.Points(name, to.Add(-time.Duration(hours)*time.Hour), to)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metrics", err.Error())
	}
	if points == nil {
		points = []metrics.Point{}
	}
	return ok(c, map[string]interface{}{"metric": name, "points": points})
}
