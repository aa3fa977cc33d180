package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-analytics-service/internal/analysis"
)

const dateLayout = "2006-01-02"

// parseParams builds the analysis parameter state from query parameters,
// starting from the dashboard's defaults. Every knob is optional.
func parseParams(r *http.Request) (analysis.Params, error) {
	q := r.URL.Query()
	params := analysis.DefaultParams()

	var err error
	if params.Criteria.MinMagnitude, err = queryFloat(q, "min_magnitude", params.Criteria.MinMagnitude); err != nil {
		return params, err
	}
	if params.Criteria.MaxMagnitude, err = queryFloat(q, "max_magnitude", params.Criteria.MaxMagnitude); err != nil {
		return params, err
	}
	if params.Criteria.MinDepth, err = queryFloat(q, "min_depth", params.Criteria.MinDepth); err != nil {
		return params, err
	}
	if params.Criteria.MaxDepth, err = queryFloat(q, "max_depth", params.Criteria.MaxDepth); err != nil {
		return params, err
	}
	if params.Criteria.Start, err = queryDate(q, "start_date"); err != nil {
		return params, err
	}
	if params.Criteria.End, err = queryDate(q, "end_date"); err != nil {
		return params, err
	}
	if v := q.Get("category"); v != "" {
		params.Criteria.Category = v
	}

	if v := q.Get("period"); v != "" {
		switch analysis.Period(v) {
		case analysis.PeriodDay, analysis.PeriodWeek, analysis.PeriodMonth, analysis.PeriodYear:
			params.Period = analysis.Period(v)
		default:
			return params, fmt.Errorf("invalid period: %q", v)
		}
	}

	if v := q.Get("metric"); v != "" {
		switch analysis.Metric(v) {
		case analysis.MetricMagnitude, analysis.MetricDepth, analysis.MetricSignificance,
			analysis.MetricLatitude, analysis.MetricLongitude:
			params.AnomalyMetric = analysis.Metric(v)
		default:
			return params, fmt.Errorf("invalid metric: %q", v)
		}
	}

	if params.AnomalyThreshold, err = queryFloat(q, "threshold", params.AnomalyThreshold); err != nil {
		return params, err
	}
	if params.AnomalyThreshold <= 0 {
		return params, fmt.Errorf("threshold must be positive")
	}

	if v := q.Get("method"); v != "" {
		switch analysis.Method(v) {
		case analysis.MethodPearson, analysis.MethodSpearman:
			params.CorrelationMethod = analysis.Method(v)
		default:
			return params, fmt.Errorf("invalid method: %q", v)
		}
	}

	return params, nil
}

func (s *Server) parsePagination(r *http.Request) (page, perPage int, err error) {
	q := r.URL.Query()

	page = 1
	if v := q.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("invalid page: %q", v)
		}
	}

	perPage = s.pagination.DefaultPageSize
	if v := q.Get("per_page"); v != "" {
		perPage, err = strconv.Atoi(v)
		if err != nil || perPage < 1 {
			return 0, 0, fmt.Errorf("invalid per_page: %q", v)
		}
	}
	if perPage > s.pagination.MaxPageSize {
		perPage = s.pagination.MaxPageSize
	}

	return page, perPage, nil
}

func queryFloat(q url.Values, key string, fallback float64) (float64, error) {
	v := q.Get(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func queryDate(q url.Values, key string) (*time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, v)
	}
	t = t.UTC()
	return &t, nil
}
