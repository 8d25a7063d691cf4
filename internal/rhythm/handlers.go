package rhythm

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/gorilla/mux"
    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/common/utils"
)

type Handler struct {
    service Service
}

func NewHandler(service Service) *Handler {
    return &Handler{service: service}
}

func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    conversationID, err := conversationIDFrom(r)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
        return
    }

    result, err := h.service.Get(r.Context(), conversationID, userID)
    if err != nil {
        h.respondServiceError(w, err)
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) RefreshScore(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    conversationID, err := conversationIDFrom(r)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
        return
    }

    result, err := h.service.Refresh(r.Context(), conversationID, userID)
    if err != nil {
        h.respondServiceError(w, err)
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, ErrNotParticipant):
        utils.RespondWithError(w, http.StatusForbidden, err.Error())
    case errors.Is(err, ErrInvalidStats):
        utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
    default:
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute rhythm score")
    }
}

func conversationIDFrom(r *http.Request) (int64, error) {
    vars := mux.Vars(r)
    return strconv.ParseInt(vars["conversationId"], 10, 64)
}
