package availability

import (
    "github.com/gorilla/mux"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
    api := router.PathPrefix("/api/v1/availability").Subrouter()
    api.Use(authMiddleware.Authenticate)

    api.HandleFunc("", handler.GetActive).Methods("GET")
    api.HandleFunc("/can-activate", handler.CanActivate).Methods("GET")
    api.HandleFunc("/activate", handler.Activate).Methods("POST")
    api.HandleFunc("/deactivate", handler.Deactivate).Methods("POST")
}
