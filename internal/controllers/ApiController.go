package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"scd/internal/models"
	"scd/internal/providers"
	"scd/internal/services"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger providers.Logger
	query  services.QueryServiceInterface
	cache  providers.CacheProviderInterface
	send   models.SendFunc
}

func NewApiController(logger providers.Logger, query services.QueryServiceInterface, cache providers.CacheProviderInterface, send models.SendFunc) *ApiController {
	return &ApiController{
		logger: logger,
		query:  query,
		cache:  cache,
		send:   send,
	}
}

type sendRequest struct {
	Action string            `json:"action"`
	Params models.SendParams `json:"params"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type dailyReportResponse struct {
	Date   string `json:"date"`
	Report string `json:"report,omitempty"`
	Empty  bool   `json:"empty,omitempty"`
}

type groupTableResponse struct {
	Date   string                `json:"date"`
	Groups []models.ChannelCount `json:"groups,omitempty"`
	Empty  bool                  `json:"empty,omitempty"`
}

type groupCountResponse struct {
	Date  string `json:"date"`
	ID    int64  `json:"id"`
	Count int    `json:"count"`
	Empty bool   `json:"empty,omitempty"`
}

// SendProxy is the interception point: the request's action and params
// run through the wrapped send pipeline and the upstream's raw response
// is returned to the caller. A forward failure is the one error class
// surfaced unmodified.
func (ac *ApiController) SendProxy(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Action == "" {
		http.Error(w, "Bad Request: missing action", http.StatusBadRequest)
		return
	}

	raw, err := ac.send(r.Context(), req.Action, &req.Params)
	if err != nil {
		ac.logger.Errorf(providers.TypeSend, "forward %s failed: %s", req.Action, err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (ac *ApiController) StatsToday(w http.ResponseWriter, r *http.Request) {
	ac.dailyReport(w, models.DateKey(time.Now()))
}

func (ac *ApiController) StatsYesterday(w http.ResponseWriter, r *http.Request) {
	ac.dailyReport(w, models.DateKey(time.Now().Add(-24*time.Hour)))
}

func (ac *ApiController) dailyReport(w http.ResponseWriter, date string) {
	ac.serveFromCacheOrCompute(w, "summary:"+date, func() (any, error) {
		report, err := ac.query.DailyReport(date)
		if errors.Is(err, services.ErrNoData) {
			return dailyReportResponse{Date: date, Empty: true}, nil
		}
		if err != nil {
			return nil, err
		}
		return dailyReportResponse{Date: date, Report: report}, nil
	})
}

func (ac *ApiController) GroupStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = models.DateKey(time.Now())
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		http.Error(w, "Bad Request: invalid date", http.StatusBadRequest)
		return
	}

	idParam := r.URL.Query().Get("id")
	if idParam == "" {
		ac.serveFromCacheOrCompute(w, "groups:"+date, func() (any, error) {
			rows, err := ac.query.GroupTable(date)
			if errors.Is(err, services.ErrNoData) {
				return groupTableResponse{Date: date, Empty: true}, nil
			}
			if err != nil {
				return nil, err
			}
			return groupTableResponse{Date: date, Groups: rows}, nil
		})
		return
	}

	id, err := cast.ToInt64E(idParam)
	if err != nil {
		http.Error(w, "Bad Request: invalid id", http.StatusBadRequest)
		return
	}
	ac.serveFromCacheOrCompute(w, fmt.Sprintf("group:%s:%d", date, id), func() (any, error) {
		count, err := ac.query.GroupCount(date, id)
		if errors.Is(err, services.ErrNoData) {
			return groupCountResponse{Date: date, ID: id, Empty: true}, nil
		}
		if err != nil {
			return nil, err
		}
		return groupCountResponse{Date: date, ID: id, Count: count}, nil
	})
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
