package realtime

import (
    "github.com/gorilla/mux"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/auth"
)

func RegisterRoutes(router *mux.Router, hub *Hub, authMiddleware *auth.Middleware) {
    api := router.PathPrefix("/api/v1/realtime").Subrouter()
    api.Use(authMiddleware.Authenticate)

    api.HandleFunc("/ws", hub.ServeWS)
}
