package engagement

import (
    "github.com/gorilla/mux"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
    api := router.PathPrefix("/api/v1/engagement").Subrouter()
    api.Use(authMiddleware.Authenticate)

    api.HandleFunc("/score", handler.GetScore).Methods("GET")
    api.HandleFunc("/score/refresh", handler.RefreshScore).Methods("POST")
    api.HandleFunc("/boosts/{userId}", handler.GrantBoost).Methods("POST")
}
