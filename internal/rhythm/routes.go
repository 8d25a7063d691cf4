package rhythm

import (
    "github.com/gorilla/mux"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
    api := router.PathPrefix("/api/v1/conversations/{conversationId}/rhythm").Subrouter()
    api.Use(authMiddleware.Authenticate)

    api.HandleFunc("", handler.GetScore).Methods("GET")
    api.HandleFunc("/refresh", handler.RefreshScore).Methods("POST")
}
