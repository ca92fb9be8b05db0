// Package http provides the operator endpoints under /admin
package http

import (
	"net/http"
	"strconv"

	"birdspot/internal/modkit/httpkit"
	perr "birdspot/internal/platform/errors"
	quotadom "birdspot/internal/services/quota/domain"
	cachedom "birdspot/internal/services/resultcache/domain"
	usagedom "birdspot/internal/services/usage/domain"
)

// Deps are the admin ports the handlers drive
type Deps struct {
	Usage usagedom.ReaderPort
	Quota quotadom.AdminPort
	Cache cachedom.AdminPort
}

type handlers struct {
	deps Deps
}

// Register mounts the admin routes on r, which is expected to be guarded already
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/usage/recent", h.recent)
	httpkit.Get(r, "/quota/{identity}", h.quotaUsage)
	r.Delete("/quota/{identity}", httpkit.Handle(h.quotaReset))
	httpkit.Get(r, "/cache/stats", h.cacheStats)
	r.Delete("/cache/{key}", httpkit.Handle(h.cacheDelete))
}

// RecentResponse wraps the newest usage entries
type RecentResponse struct {
	Logs []usagedom.Entry `json:"logs"`
}

// @Summary Newest usage log entries
// @Tags Admin
// @Security bearer
// @Produce json
// @Param limit query int false "max entries (default 50, capped at 500)"
// @Success 200 {object} RecentResponse
// @Router /admin/usage/recent [get]
func (h *handlers) recent(r *http.Request) (any, error) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, perr.WithField(perr.Validationf("limit must be a non negative integer"), "limit")
		}
		limit = n
	}
	logs, err := h.deps.Usage.Recent(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []usagedom.Entry{}
	}
	return RecentResponse{Logs: logs}, nil
}

// @Summary Daily counter of one identity
// @Tags Admin
// @Security bearer
// @Produce json
// @Param identity path string true "quota identity, user id or ip:<addr>"
// @Param day query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} quotadom.Usage
// @Router /admin/quota/{identity} [get]
func (h *handlers) quotaUsage(r *http.Request) (any, error) {
	return h.deps.Quota.Usage(r.Context(), httpkit.Param(r, "identity"), r.URL.Query().Get("day"))
}

// @Summary Reset the daily counter of one identity
// @Tags Admin
// @Security bearer
// @Param identity path string true "quota identity"
// @Param day query string false "YYYY-MM-DD, defaults to today"
// @Success 204
// @Router /admin/quota/{identity} [delete]
func (h *handlers) quotaReset(r *http.Request) httpkit.Response {
	if err := h.deps.Quota.Reset(r.Context(), httpkit.Param(r, "identity"), r.URL.Query().Get("day")); err != nil {
		return httpkit.Error(err)
	}
	return httpkit.NoContent()
}

// @Summary Result cache size
// @Tags Admin
// @Security bearer
// @Produce json
// @Success 200 {object} cachedom.Stats
// @Router /admin/cache/stats [get]
func (h *handlers) cacheStats(r *http.Request) (any, error) {
	return h.deps.Cache.Stats(r.Context())
}

// @Summary Evict one cached result
// @Tags Admin
// @Security bearer
// @Param key path string true "fingerprint key"
// @Success 204
// @Router /admin/cache/{key} [delete]
func (h *handlers) cacheDelete(r *http.Request) httpkit.Response {
	key := httpkit.Param(r, "key")
	ok, err := h.deps.Cache.Delete(r.Context(), key)
	if err != nil {
		return httpkit.Error(err)
	}
	if !ok {
		return httpkit.Error(perr.NotFoundf("no cached result for %q", key))
	}
	return httpkit.NoContent()
}
