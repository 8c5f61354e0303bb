package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/raptor1820/georloctesting/internal/metrics"
	"github.com/raptor1820/georloctesting/internal/models"
	"github.com/raptor1820/georloctesting/internal/store"
)

// DefaultQueryLimit is used when the request has no usable limit.
const DefaultQueryLimit = 50

// LocationPublisher receives every saved record.
type LocationPublisher interface {
	PublishLocation(loc models.Location)
}

// LocationController serves the ingest and query endpoints over one store.
type LocationController struct {
	store     store.LocationStore
	publisher LocationPublisher
	now       func() time.Time
}

// NewLocationController wires the handlers to s. publisher may be nil.
func NewLocationController(s store.LocationStore, publisher LocationPublisher) *LocationController {
	return &LocationController{
		store:     s,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateLocation validates a sample, stores it and returns the stored record.
func (lc *LocationController) CreateLocation(c *gin.Context) {
	var input models.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			metrics.LocationsIngested.WithLabelValues(metrics.OutcomeInvalid).Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing latitude or longitude"})
			return
		}
		metrics.LocationsIngested.WithLabelValues(metrics.OutcomeError).Inc()
		logrus.WithError(err).Error("Error saving location.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save location"})
		return
	}

	record := lc.newRecord(input)
	lc.store.Append(record)
	metrics.LocationsIngested.WithLabelValues(metrics.OutcomeSaved).Inc()
	metrics.StoredLocations.Set(float64(lc.store.Len()))

	logrus.WithFields(logrus.Fields{
		"id":        record.ID,
		"latitude":  record.Latitude,
		"longitude": record.Longitude,
		"accuracy":  accuracyField(record.Accuracy),
	}).Info("Location saved.")

	if lc.publisher != nil {
		lc.publisher.PublishLocation(record)
	}

	c.JSON(http.StatusCreated, record)
}

// ListLocations returns the newest records first, optionally only those
// newer than `since`, bounded by `limit`.
func (lc *LocationController) ListLocations(c *gin.Context) {
	metrics.LocationQueries.WithLabelValues("list").Inc()

	all := lc.store.List()
	page := selectRecent(all, c.Query("since"), parseLimit(c.Query("limit")))

	locations := make([]models.Location, len(page))
	for i, loc := range page {
		locations[len(page)-1-i] = loc
	}

	c.JSON(http.StatusOK, models.LocationPage{
		Count:     len(locations),
		Total:     len(all),
		Locations: locations,
	})
}

// Health reports liveness and the current store size.
func (lc *LocationController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"locations": lc.store.Len(),
	})
}

func (lc *LocationController) newRecord(input models.LocationInput) models.Location {
	now := lc.now()
	received := models.FormatTime(now)

	timestamp := input.Timestamp
	if timestamp == "" {
		timestamp = received
	}

	return models.Location{
		ID:         newLocationID(now),
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		Accuracy:   input.Accuracy,
		Timestamp:  timestamp,
		ReceivedAt: received,
	}
}

// newLocationID combines the ingest millisecond with 48 random bits.
func newLocationID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("loc_%d_%s", now.UnixMilli(), random[:12])
}

// selectRecent filters by since (when non-empty) and keeps the last limit
// records, still oldest first.
func selectRecent(all []models.Location, since string, limit int) []models.Location {
	filtered := all
	if since != "" {
		filtered = filterSince(all, since)
	}
	if start := len(filtered) - limit; start > 0 {
		filtered = filtered[start:]
	}
	return filtered
}

// filterSince keeps records whose timestamp is strictly after since. Any
// unparseable value makes the comparison false.
func filterSince(all []models.Location, since string) []models.Location {
	out := make([]models.Location, 0, len(all))
	sinceTime, ok := models.ParseTimestamp(since)
	if !ok {
		return out
	}
	for _, loc := range all {
		ts, ok := models.ParseTimestamp(loc.Timestamp)
		if ok && ts.After(sinceTime) {
			out = append(out, loc)
		}
	}
	return out
}

func parseLimit(raw string) int {
	if raw == "" {
		return DefaultQueryLimit
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultQueryLimit
	}
	return n
}

func accuracyField(acc *float64) interface{} {
	if acc == nil {
		return "unknown"
	}
	return *acc
}
