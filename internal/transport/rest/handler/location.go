package handler

import (
	"campussafety/internal/model"
	"campussafety/internal/service"
	"campussafety/internal/transport/rest/middleware"
	"net/http"
)

type LocationHandler struct {
	locationSvc *service.LocationService
}

func NewLocationHandler(locationSvc *service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// List handles GET /v1/locations
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	locations, err := h.locationSvc.List(r.Context(), claims.AccountID)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	if locations == nil {
		locations = []model.Location{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"locations": locations})
}
