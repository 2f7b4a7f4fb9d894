package saved

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kiezswap/kiezswap-backend/internal/common/utils"
	"github.com/kiezswap/kiezswap-backend/internal/listings"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type saveListingDTO struct {
	UserID  string           `json:"user_id" validate:"required"`
	Listing listings.Listing `json:"listing" validate:"required"`
}

func (h *Handler) SaveListing(w http.ResponseWriter, r *http.Request) {
	var dto saveListingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.SaveListing(r.Context(), dto.UserID, &dto.Listing)
	if err != nil {
		if errors.Is(err, ErrMissingIDs) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save listing")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *Handler) UnsaveListing(w http.ResponseWriter, r *http.Request) {
	listingID := mux.Vars(r)["listingId"]
	userID := r.URL.Query().Get("user_id")

	if err := h.service.UnsaveListing(r.Context(), userID, listingID); err != nil {
		if errors.Is(err, ErrMissingIDs) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unsave listing")
		return
	}

	utils.MessageResponse(w, "Listing removed from saved", http.StatusOK)
}

func (h *Handler) GetSavedListings(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	results, err := h.service.GetSavedListings(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get saved listings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, results)
}

func (h *Handler) GetSavedStatus(w http.ResponseWriter, r *http.Request) {
	listingID := mux.Vars(r)["listingId"]
	userID := r.URL.Query().Get("user_id")

	isSaved, err := h.service.IsListingSaved(r.Context(), userID, listingID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check saved status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"saved": isSaved})
}

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/saved").Subrouter()

	api.HandleFunc("", handler.SaveListing).Methods("POST")
	api.HandleFunc("", handler.GetSavedListings).Methods("GET")
	api.HandleFunc("/{listingId}", handler.UnsaveListing).Methods("DELETE")
	api.HandleFunc("/{listingId}/status", handler.GetSavedStatus).Methods("GET")
}
