package matching

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kiezswap/kiezswap-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// FindMatches handles POST /api/v1/matches/find. Infrastructure failures
// come back as one generic error with no detail; everything else degrades to
// an empty or structured-only result inside the service.
func (h *Handler) FindMatches(w http.ResponseWriter, r *http.Request) {
	var req FindMatchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.service.FindMatches(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrMissingUserID) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to find matches")
		return
	}

	utils.RespondWithData(w, http.StatusOK, results)
}
