package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"sprintd/internal/feed/interfaces"
	"sprintd/internal/models"
	"sprintd/internal/providers"
	"sprintd/internal/services"
	"sprintd/internal/timeline"
)

type ApiController struct {
	logger    providers.Logger
	service   services.TimelineServiceInterface
	scheduler interfaces.SchedulerInterface
	cache     providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.TimelineServiceInterface, scheduler interfaces.SchedulerInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:    logger,
		service:   service,
		scheduler: scheduler,
		cache:     cache,
	}
}

// serveFromCacheOrCompute serves the cached JSON for the key when
// present, otherwise computes, caches and serves. Compute errors mean
// no snapshot has been published yet, so they map to 503 rather than
// 500.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
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

func getZoom(r *http.Request) string {
	return r.URL.Query().Get("zoom")
}

// GetTimeline serves the positioned timeline. An explicit from/to pair
// overrides the optimal range, an explicit width overrides the
// configured container width; unknown zoom names fall back to the
// weekly view.
func (ac *ApiController) GetTimeline(w http.ResponseWriter, r *http.Request) {
	zoom := getZoom(r)
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	width, err := castParam(r.URL.Query().Get("width"), 0)
	if err != nil || width < 0 {
		http.Error(w, "Bad Request: width must be a non-negative integer", http.StatusBadRequest)
		return
	}

	var dateRange *models.DateRange
	if from != "" || to != "" {
		if from == "" || to == "" {
			http.Error(w, "Bad Request: from and to must be given together", http.StatusBadRequest)
			return
		}
		start, err := models.ParseDate(from)
		if err != nil {
			http.Error(w, "Bad Request: unparseable from date", http.StatusBadRequest)
			return
		}
		end, err := models.ParseDate(to)
		if err != nil {
			http.Error(w, "Bad Request: unparseable to date", http.StatusBadRequest)
			return
		}
		if end.Before(start) {
			http.Error(w, "Bad Request: to before from", http.StatusBadRequest)
			return
		}
		dateRange = &models.DateRange{Start: start, End: end}
	}

	ac.serveFromCacheOrCompute(w, "timeline:"+zoom+":"+from+":"+to+":"+r.URL.Query().Get("width"), func() (any, error) {
		return ac.service.TimelineFor(zoom, dateRange, width)
	})
}

func (ac *ApiController) GetConflicts(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "conflicts", func() (any, error) {
		return ac.service.Conflicts()
	})
}

func (ac *ApiController) GetIndicators(w http.ResponseWriter, r *http.Request) {
	zoom := getZoom(r)
	ac.serveFromCacheOrCompute(w, "indicators:"+zoom, func() (any, error) {
		return ac.service.Indicators(zoom)
	})
}

// GetWindow serves the virtual-scroll row window. Query parameters are
// validated here; the core treats bad geometry as a programming error.
func (ac *ApiController) GetWindow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rowHeight, err := castParam(q.Get("rowHeight"), 0)
	if err != nil {
		http.Error(w, "Bad Request: rowHeight must be an integer", http.StatusBadRequest)
		return
	}
	viewport, err := castParam(q.Get("viewport"), 600)
	if err != nil {
		http.Error(w, "Bad Request: viewport must be an integer", http.StatusBadRequest)
		return
	}
	scroll, err := castParam(q.Get("scroll"), 0)
	if err != nil {
		http.Error(w, "Bad Request: scroll must be an integer", http.StatusBadRequest)
		return
	}
	if scroll < 0 {
		scroll = 0
	}

	ac.serveFromCacheOrCompute(w, "window:"+q.Get("rowHeight")+":"+q.Get("viewport")+":"+q.Get("scroll"), func() (any, error) {
		return ac.service.Window(rowHeight, viewport, scroll)
	})
}

func (ac *ApiController) GetZoomLevels(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "zoom-levels", func() (any, error) {
		return timeline.ZoomNames(), nil
	})
}

// Refresh triggers an immediate upstream fetch and flushes the response
// cache so the next read sees the new snapshot.
func (ac *ApiController) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := ac.scheduler.Refresh(); err != nil {
		ac.logger.Errorf(providers.TypeFeed, "Manual refresh failed: %s", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}
	ac.cache.Flush()
	w.WriteHeader(http.StatusNoContent)
}

func castParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return cast.ToIntE(raw)
}
