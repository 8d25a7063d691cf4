package comfort

import (
    "encoding/json"
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

func (h *Handler) SetLevel(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    conversationID, err := conversationIDFrom(r)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
        return
    }

    var dto SetLevelDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }

    if err := utils.ValidateStruct(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    state, err := h.service.SetLevel(r.Context(), conversationID, userID, Level(dto.Level))
    if err != nil {
        h.respondServiceError(w, err)
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, state)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    conversationID, err := conversationIDFrom(r)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
        return
    }

    state, err := h.service.Reset(r.Context(), conversationID, userID)
    if err != nil {
        h.respondServiceError(w, err)
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, state)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    conversationID, err := conversationIDFrom(r)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
        return
    }

    state, err := h.service.GetState(r.Context(), conversationID, userID)
    if err != nil {
        h.respondServiceError(w, err)
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, state)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
    switch err {
    case ErrConversationNotFound:
        utils.RespondWithError(w, http.StatusNotFound, err.Error())
    case ErrNotParticipant:
        utils.RespondWithError(w, http.StatusForbidden, err.Error())
    case ErrInvalidLevel:
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
    default:
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process comfort level")
    }
}

func conversationIDFrom(r *http.Request) (int64, error) {
    vars := mux.Vars(r)
    return strconv.ParseInt(vars["conversationId"], 10, 64)
}
