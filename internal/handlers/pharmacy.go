package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"health-triage-server/internal/config"
	"health-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultSearchRadius = 3000 // meters
	maxSearchRadius     = 20000
	overpassTimeout     = 15 * time.Second
)

// PharmacyHandler proxies nearby-pharmacy lookups to the Overpass API so
// the browser never talks to it directly.
type PharmacyHandler struct {
	Client      *http.Client
	OverpassURL string
}

// NewPharmacyHandler creates a new PharmacyHandler.
func NewPharmacyHandler(cfg *config.Config) *PharmacyHandler {
	return &PharmacyHandler{
		Client:      &http.Client{Timeout: overpassTimeout},
		OverpassURL: cfg.Pharmacy.OverpassURL,
	}
}

// FindNearby returns pharmacies around a coordinate. Query params: lat,
// lon (required) and radius in meters (optional, capped).
func (h *PharmacyHandler) FindNearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		utils.BadRequest(c, "Invalid or missing lat parameter")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		utils.BadRequest(c, "Invalid or missing lon parameter")
		return
	}

	radius := defaultSearchRadius
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil || radius <= 0 {
			utils.BadRequest(c, "Invalid radius parameter")
			return
		}
		if radius > maxSearchRadius {
			radius = maxSearchRadius
		}
	}

	query := fmt.Sprintf(
		`[out:json][timeout:10];(node["amenity"="pharmacy"](around:%d,%f,%f);way["amenity"="pharmacy"](around:%d,%f,%f););out center;`,
		radius, lat, lon, radius, lat, lon,
	)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(
		c.Request.Context(),
		http.MethodPost,
		h.OverpassURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		utils.InternalServerError(c, "Failed to build pharmacy request: "+err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.Client.Do(req)
	if err != nil {
		utils.InternalServerError(c, "Pharmacy lookup failed: "+err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.InternalServerError(c, fmt.Sprintf("Pharmacy lookup failed with status %d", resp.StatusCode))
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		utils.InternalServerError(c, "Failed to read pharmacy response: "+err.Error())
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
