package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kiezswap/kiezswap-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	var profile UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	profile.ID = userID

	updated, err := h.service.UpdateProfile(r.Context(), &profile)
	if err != nil {
		if errors.Is(err, ErrMissingUserID) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/users").Subrouter()

	api.HandleFunc("/{id}/profile", handler.GetProfile).Methods("GET")
	api.HandleFunc("/{id}/profile", handler.UpdateProfile).Methods("PUT")
}
