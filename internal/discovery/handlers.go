package discovery

import (
    "net/http"
    "strconv"

    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/common/utils"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

func (h *Handler) GetDiscoveryList(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    filters := &Filters{
        Gender:        r.URL.Query().Get("gender"),
        MinAge:        queryInt(r, "min_age", 0),
        MaxAge:        queryInt(r, "max_age", 0),
        MaxDistanceKM: queryFloat(r, "max_distance_km", 0),
        VerifiedOnly:  r.URL.Query().Get("verified_only") == "true",
        WithPhotoOnly: r.URL.Query().Get("with_photo") == "true",
        Limit:         queryInt(r, "limit", 50),
    }

    candidates, err := h.service.Rank(r.Context(), userID, filters)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build discovery list")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
        "candidates": candidates,
        "count":      len(candidates),
    })
}

func queryInt(r *http.Request, key string, fallback int) int {
    raw := r.URL.Query().Get(key)
    if raw == "" {
        return fallback
    }
    value, err := strconv.Atoi(raw)
    if err != nil {
        return fallback
    }
    return value
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
    raw := r.URL.Query().Get(key)
    if raw == "" {
        return fallback
    }
    value, err := strconv.ParseFloat(raw, 64)
    if err != nil {
        return fallback
    }
    return value
}
