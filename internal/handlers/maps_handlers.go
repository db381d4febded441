package handlers

import (
	"net/http"
	"strconv"

	"github.com/ryadom/ryadom/internal/apperrors"
	"github.com/ryadom/ryadom/internal/service"
	"github.com/sirupsen/logrus"
)

type MapsHandlers struct {
	mapsService *service.MapsService
	logger      *logrus.Logger
}

func NewMapsHandlers(mapsService *service.MapsService, logger *logrus.Logger) *MapsHandlers {
	return &MapsHandlers{
		mapsService: mapsService,
		logger:      logger,
	}
}

func (h *MapsHandlers) Geocode(w http.ResponseWriter, r *http.Request) {
	result, err := h.mapsService.Geocode(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *MapsHandlers) StaticMap(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		respondWithError(w, apperrors.Validation("Query parameter lat must be a number"))
		return
	}

	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		respondWithError(w, apperrors.Validation("Query parameter lon must be a number"))
		return
	}

	zoom := 0
	if raw := query.Get("zoom"); raw != "" {
		zoom, err = strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, apperrors.Validation("Query parameter zoom must be an integer"))
			return
		}
	}

	result, err := h.mapsService.StaticMapURL(lat, lon, zoom, query.Get("size"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
