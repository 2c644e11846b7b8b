// Package middleware provides Echo middleware for the watch-monitor API.
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sfeuerstein/watch-monitor/internal/metrics"
)

// Metrics returns Echo middleware that records request duration and
// status counts. Probe and scrape paths (/healthz, /readyz, /metrics)
// stay out of the histogram and counter; the probes instead drive the
// healthz/readyz up gauges.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			switch path {
			case "/metrics", "/healthz", "/readyz":
				err := next(c)
				setProbeGauge(path, resolveStatus(c, err))
				return err
			}

			start := time.Now()
			err := next(c)

			status := strconv.Itoa(resolveStatus(c, err))
			method := c.Request().Method
			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}

// resolveStatus returns the status code the request will be answered
// with. A handler that returns an error before writing anything leaves
// the response at its default 200; the real code is on the error and
// gets written later by the error handler.
func resolveStatus(c echo.Context, err error) int {
	if err != nil && !c.Response().Committed {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code
		}
		return http.StatusInternalServerError
	}
	return c.Response().Status
}

// setProbeGauge flips the gauge behind a probe path to 1 on a 2xx
// answer and 0 on anything else.
func setProbeGauge(path string, status int) {
	up := 0.0
	if status >= 200 && status < 300 {
		up = 1.0
	}
	switch path {
	case "/healthz":
		metrics.HealthzUp.Set(up)
	case "/readyz":
		metrics.ReadyzUp.Set(up)
	}
}
