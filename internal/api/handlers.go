// Package api implements the fiber HTTP surface of spec §6: /health, /route,
// /compare.
package api

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/caminoseguro/walkroute_core/internal/cache"
	"github.com/caminoseguro/walkroute_core/internal/models"
	"github.com/caminoseguro/walkroute_core/internal/query"
	"github.com/caminoseguro/walkroute_core/internal/stats"
)

// Handler bundles the query engine shared by every route (spec §5: the
// engine is immutable after construction and safe for concurrent calls).
type Handler struct {
	Engine *query.Engine
	// CacheEnabled controls whether route computation consults the optional
	// Redis cache; false runs every query live, matching a disabled/absent
	// cache client (cache is always best-effort, never required).
	CacheEnabled bool
}

// NewHandler constructs a Handler around an already-built query engine.
func NewHandler(engine *query.Engine, cacheEnabled bool) *Handler {
	return &Handler{Engine: engine, CacheEnabled: cacheEnabled}
}

// Health implements GET /health.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Route implements GET /route (spec §6).
func (h *Handler) Route(c *fiber.Ctx) error {
	originLon, originLat, err := parseLonLat(c.Query("origin_lon"), c.Query("origin_lat"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("invalid origin: %v", err)})
	}
	destLon, destLat, err := parseLonLat(c.Query("dest_lon"), c.Query("dest_lat"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("invalid destination: %v", err)})
	}

	optimization := c.Query("optimization", "distance")
	algorithm := c.Query("algorithm", "dijkstra")

	result, err := h.computeRoute(c.Context(), originLon, originLat, destLon, destLat, optimization, algorithm)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	fc := stats.ToFeatureCollection(sanitizeResult(result))
	return c.JSON(fc)
}

// Compare implements GET /compare (spec §6): runs the same query under
// several requested algorithms, fanned out over goroutines, one per algorithm.
func (h *Handler) Compare(c *fiber.Ctx) error {
	originLon, originLat, err := parseLonLat(c.Query("origin_lon"), c.Query("origin_lat"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("invalid origin: %v", err)})
	}
	destLon, destLat, err := parseLonLat(c.Query("dest_lon"), c.Query("dest_lat"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("invalid destination: %v", err)})
	}

	optimization := c.Query("optimization", "distance")
	algorithmsParam := c.Query("algorithms", "dijkstra,astar,bellman_ford")
	algorithms := strings.Split(algorithmsParam, ",")

	type comparisonRoute struct {
		Algorithm  string                 `json:"algorithm"`
		Features   interface{}            `json:"features"`
		Statistics models.Statistics      `json:"statistics"`
		Cost       float64                `json:"cost"`
		Note       string                 `json:"note,omitempty"`
	}

	type indexedResult struct {
		index int
		route comparisonRoute
	}

	resultChan := make(chan indexedResult, len(algorithms))
	var wg sync.WaitGroup

	for i, algo := range algorithms {
		algo = strings.TrimSpace(algo)
		wg.Add(1)
		go func(idx int, algorithm string) {
			defer wg.Done()
			result, err := h.computeRoute(c.Context(), originLon, originLat, destLon, destLat, optimization, algorithm)
			if err != nil {
				log.Printf("api: compare failed for algorithm %s: %v", algorithm, err)
				resultChan <- indexedResult{index: idx, route: comparisonRoute{Algorithm: algorithm}}
				return
			}
			sanitized := sanitizeResult(result)
			fc := stats.ToFeatureCollection(sanitized)
			resultChan <- indexedResult{
				index: idx,
				route: comparisonRoute{
					Algorithm:  algorithm,
					Features:   fc.Features,
					Statistics: sanitized.Statistics,
					Cost:       sanitized.Cost,
					Note:       sanitized.Note,
				},
			}
		}(i, algo)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	routes := make([]comparisonRoute, len(algorithms))
	for r := range resultChan {
		routes[r.index] = r.route
	}

	return c.JSON(fiber.Map{
		"type":         "Comparison",
		"optimization": optimization,
		"routes":       routes,
	})
}

// computeRoute runs the optional cache-then-compute sequence: cache lookup,
// lock acquisition, wait-for-lock on contention, compute, cache, release. Any
// cache-layer error degrades gracefully to direct computation.
func (h *Handler) computeRoute(ctx context.Context, originLon, originLat, destLon, destLat float64, optimization, algorithm string) (models.Result, error) {
	if !h.CacheEnabled {
		return h.Engine.Route(originLon, originLat, destLon, destLat, optimization, algorithm)
	}

	cacheKey := cache.RouteKey(originLon, originLat, destLon, destLat, optimization, algorithm)
	lockKey := cache.LockKey(cacheKey)

	if cached, err := cache.GetResult(ctx, cacheKey); err == nil && cached != nil {
		return *cached, nil
	}

	acquired, err := cache.AcquireLock(ctx, lockKey, 5*time.Second)
	if err != nil {
		log.Printf("api: failed to acquire route cache lock: %v", err)
	} else if !acquired {
		if cached, err := cache.WaitForLock(ctx, cacheKey, 3*time.Second); err == nil && cached != nil {
			return *cached, nil
		}
	}
	defer func() {
		if acquired {
			cache.ReleaseLock(ctx, lockKey)
		}
	}()

	result, err := h.Engine.Route(originLon, originLat, destLon, destLat, optimization, algorithm)
	if err != nil {
		return models.Result{}, err
	}

	if err := cache.SetResult(ctx, cacheKey, result, 10*time.Minute); err != nil {
		log.Printf("api: failed to cache route result: %v", err)
	}

	return result, nil
}

// parseLonLat parses a pair of query-string floats, validating WGS84 range.
func parseLonLat(lonStr, latStr string) (lon, lat float64, err error) {
	if lonStr == "" || latStr == "" {
		return 0, 0, fmt.Errorf("missing coordinate")
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude must be between -180 and 180")
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude must be between -90 and 90")
	}
	return lon, lat, nil
}
