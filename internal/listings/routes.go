package listings

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/listings").Subrouter()

	api.HandleFunc("", handler.FindListings).Methods("GET")
	api.HandleFunc("/import", handler.ImportListings).Methods("POST")
	api.HandleFunc("/cleanup", handler.CleanupListings).Methods("POST")
	api.HandleFunc("/{id}", handler.GetListing).Methods("GET")
}
