package notifications

import (
    "encoding/json"
    "net/http"

    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/common/utils"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    var dto RegisterTokenDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }

    if err := utils.ValidateStruct(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    if err := h.service.RegisterToken(r.Context(), userID, dto.Token, dto.Platform); err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register push token")
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (h *Handler) RemoveToken(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    var dto RemoveTokenDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }

    if err := utils.ValidateStruct(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    if err := h.service.RemoveToken(r.Context(), userID, dto.Token); err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove push token")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
