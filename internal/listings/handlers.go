package listings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/kiezswap/kiezswap-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	listing, err := h.service.GetListing(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Listing not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get listing")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listing)
}

func (h *Handler) FindListings(w http.ResponseWriter, r *http.Request) {
	filters := &Filters{}

	q := r.URL.Query()
	if v := q.Get("max_rent"); v != "" {
		if rent, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxRent = &rent
		}
	}
	if v := q.Get("min_rooms"); v != "" {
		if rooms, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinRooms = &rooms
		}
	}
	if v := q.Get("max_rooms"); v != "" {
		if rooms, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxRooms = &rooms
		}
	}
	if districts, ok := q["district"]; ok {
		filters.Districts = districts
	}
	if types, ok := q["type"]; ok {
		filters.Types = types
	}

	limit := 30
	if v := q.Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}

	results, err := h.service.FindListings(r.Context(), filters, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to query listings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, results)
}

func (h *Handler) ImportListings(w http.ResponseWriter, r *http.Request) {
	var batch []*Listing
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if len(batch) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Empty import batch")
		return
	}

	summary, err := h.service.ImportListings(r.Context(), batch)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to import listings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *Handler) CleanupListings(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.CleanupListings(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clean up listings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, summary)
}
