package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ryadom/ryadom/internal/apperrors"
	"github.com/ryadom/ryadom/internal/config"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/ryadom/ryadom/internal/repository"
	"github.com/sirupsen/logrus"
)

var sizePattern = regexp.MustCompile(`^\d+,\d+$`)

// MapsService resolves addresses to coordinates through an external geocoder
// (cached per address) and builds static map URLs locally.
type MapsService struct {
	cache      GeocodeCacheStore
	httpClient *http.Client
	cfg        config.MapsConfig
	logger     *logrus.Logger
}

func NewMapsService(cache GeocodeCacheStore, cfg config.MapsConfig, logger *logrus.Logger) *MapsService {
	return &MapsService{
		cache: cache,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// geocoderResponse mirrors the part of the geocoder payload we consume:
// featureMember[0].GeoObject.Point.pos holds "lon lat".
type geocoderResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

func (s *MapsService) Geocode(ctx context.Context, address string) (*models.GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if len(address) < 3 {
		return nil, apperrors.Validation("Address must be at least 3 characters")
	}

	if cached, err := s.cache.Get(ctx, address); err == nil {
		return cached, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.WithError(err).Warn("Geocode cache lookup failed")
	}

	result, err := s.resolveAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, result); err != nil {
		s.logger.WithError(err).Warn("Failed to cache geocode result")
	}

	return result, nil
}

func (s *MapsService) resolveAddress(ctx context.Context, address string) (*models.GeocodeResult, error) {
	params := url.Values{}
	params.Set("apikey", s.cfg.GeocoderAPIKey)
	params.Set("geocode", address)
	params.Set("format", "json")
	params.Set("results", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.GeocoderURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to build geocoder request: %w", err))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("Geocoder request failed")
		return nil, apperrors.UpstreamUnavailable(err, isTimeout(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, apperrors.Upstream(http.StatusBadGateway, "Geocoding service error")
	}

	var payload geocoderResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Upstream(http.StatusBadGateway, "Invalid response from geocoding service")
	}

	members := payload.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("Address %s not found", address))
	}

	lon, lat, err := parsePos(members[0].GeoObject.Point.Pos)
	if err != nil {
		return nil, apperrors.Upstream(http.StatusBadGateway, "Invalid coordinates from geocoding service")
	}

	return &models.GeocodeResult{
		Lat:     lat,
		Lon:     lon,
		Address: address,
	}, nil
}

// parsePos splits the geocoder's "lon lat" position string.
func parsePos(pos string) (lon, lat float64, err error) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed position %q", pos)
	}

	lon, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, err
	}

	lat, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, err
	}

	return lon, lat, nil
}

// StaticMapURL builds the static map URL for a point. No network call is
// involved.
func (s *MapsService) StaticMapURL(lat, lon float64, zoom int, size string) (*models.StaticMapResult, error) {
	if lat < -90 || lat > 90 {
		return nil, apperrors.Validation("Latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return nil, apperrors.Validation("Longitude must be between -180 and 180")
	}

	if zoom == 0 {
		zoom = 13
	}
	if size == "" {
		size = "640,450"
	}
	if !sizePattern.MatchString(size) {
		return nil, apperrors.Validation("Size must be in 'width,height' format")
	}

	mapURL := fmt.Sprintf(
		"%s?ll=%g,%g&z=%d&size=%s&pt=%g,%g,pmwtm1&lang=ru_RU&apikey=%s",
		s.cfg.StaticMapURL, lon, lat, zoom, size, lon, lat, s.cfg.StaticMapKey,
	)

	return &models.StaticMapResult{URL: mapURL}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
