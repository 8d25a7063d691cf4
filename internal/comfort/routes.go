package comfort

import (
    "github.com/gorilla/mux"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
    api := router.PathPrefix("/api/v1/conversations/{conversationId}/comfort").Subrouter()
    api.Use(authMiddleware.Authenticate)

    api.HandleFunc("", handler.GetState).Methods("GET")
    api.HandleFunc("", handler.SetLevel).Methods("PUT")
    api.HandleFunc("/reset", handler.Reset).Methods("POST")
}
