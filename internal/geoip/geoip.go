// Package geoip resolves caller IPs to a coarse location using an external
// best-effort lookup service.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"pulseboard/internal/middleware"
	"pulseboard/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 24 * time.Hour

// Resolver looks up {country, city, region} for an IP. Lookups never fail:
// any error collapses into models.UnknownLocation.
type Resolver struct {
	baseURL string
	client  *http.Client
	rdb     *redis.Client
}

// NewResolver creates a Resolver against baseURL (e.g. "http://ip-api.com/json")
// with the given per-lookup timeout. rdb may be nil; caching is then skipped.
func NewResolver(baseURL string, timeout time.Duration, rdb *redis.Client) *Resolver {
	return &Resolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		rdb:     rdb,
	}
}

type lookupResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	City       string `json:"city"`
	RegionName string `json:"regionName"`
}

// Resolve returns the best-effort location for ip. Failures are absorbed:
// the Unknown triple is returned and no error is ever surfaced.
func (r *Resolver) Resolve(ctx context.Context, ip string) models.Location {
	if isPrivate(ip) {
		return models.UnknownLocation
	}

	if loc, ok := r.cached(ctx, ip); ok {
		middleware.GeoIPLookups.WithLabelValues("cache_hit").Inc()
		return loc
	}

	loc, ok := r.lookup(ctx, ip)
	if !ok {
		middleware.GeoIPLookups.WithLabelValues("failure").Inc()
		return models.UnknownLocation
	}

	middleware.GeoIPLookups.WithLabelValues("success").Inc()
	r.store(ctx, ip, loc)
	return loc
}

func (r *Resolver) lookup(ctx context.Context, ip string) (models.Location, bool) {
	url := fmt.Sprintf("%s/%s?fields=status,country,city,regionName", r.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Location{}, false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "geoip lookup failed", slog.String("error", err.Error()))
		return models.Location{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		middleware.Logger.WarnContext(ctx, "geoip lookup failed", slog.Int("status", resp.StatusCode))
		return models.Location{}, false
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Location{}, false
	}
	if body.Status != "success" {
		return models.Location{}, false
	}

	return models.Location{
		Country: body.Country,
		City:    body.City,
		Region:  body.RegionName,
	}, true
}

func (r *Resolver) cached(ctx context.Context, ip string) (models.Location, bool) {
	if r.rdb == nil {
		return models.Location{}, false
	}
	data, err := r.rdb.Get(ctx, cacheKey(ip)).Bytes()
	if err != nil {
		return models.Location{}, false
	}
	var loc models.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return models.Location{}, false
	}
	return loc, true
}

func (r *Resolver) store(ctx context.Context, ip string, loc models.Location) {
	if r.rdb == nil {
		return
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return
	}
	// Best-effort; a cache write failure is not worth surfacing.
	_ = r.rdb.Set(ctx, cacheKey(ip), data, cacheTTL).Err()
}

func cacheKey(ip string) string {
	return "geoip:" + ip
}

// isPrivate reports whether ip is loopback, link-local, or RFC1918 space,
// which the lookup service cannot resolve.
func isPrivate(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified()
}
