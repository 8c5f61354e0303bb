package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/raptor1820/georloctesting/internal/metrics"
	"github.com/raptor1820/georloctesting/internal/models"
)

// GeoJSONContentType is the media type served by the track endpoint.
const GeoJSONContentType = "application/geo+json"

// GetTrack returns the same selection as ListLocations as a GeoJSON
// LineString feature, oldest point first.
func (lc *LocationController) GetTrack(c *gin.Context) {
	metrics.LocationQueries.WithLabelValues("track").Inc()

	all := lc.store.List()
	page := selectRecent(all, c.Query("since"), parseLimit(c.Query("limit")))

	feature, err := buildTrackFeature(page, len(all))
	if err != nil {
		logrus.WithError(err).Error("Failed to build track geometry.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build track"})
		return
	}

	body, err := feature.MarshalJSON()
	if err != nil {
		logrus.WithError(err).Error("Failed to encode track as GeoJSON.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build track"})
		return
	}
	c.Data(http.StatusOK, GeoJSONContentType, body)
}

// buildTrackFeature turns records into a LineString with [lng, lat] coordinates.
func buildTrackFeature(locs []models.Location, total int) (*gjson.Feature, error) {
	coords := make([]geom.Coord, 0, len(locs))
	for _, loc := range locs {
		coords = append(coords, geom.Coord{loc.Longitude, loc.Latitude})
	}

	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, err
	}

	props := map[string]interface{}{
		"count": len(locs),
		"total": total,
	}
	if len(locs) > 0 {
		props["from"] = locs[0].Timestamp
		props["to"] = locs[len(locs)-1].Timestamp
	}

	return &gjson.Feature{
		Geometry:   line,
		Properties: props,
	}, nil
}
