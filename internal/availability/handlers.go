package availability

import (
    "encoding/json"
    "errors"
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

func (h *Handler) CanActivate(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    durationHours := 24
    if raw := r.URL.Query().Get("duration_hours"); raw != "" {
        parsed, err := strconv.Atoi(raw)
        if err != nil || parsed <= 0 {
            utils.RespondWithError(w, http.StatusBadRequest, "Invalid duration_hours")
            return
        }
        durationHours = parsed
    }

    decision, err := h.service.CanActivate(r.Context(), userID, durationHours)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check availability")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, decision)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    var dto ActivateModeDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }

    if err := utils.ValidateStruct(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    result, err := h.service.Activate(r.Context(), userID, ModeType(dto.ModeType), dto.DurationHours, dto.ShowBadge)
    if err != nil {
        switch {
        case errors.Is(err, ErrInvalidModeType), errors.Is(err, ErrInvalidDuration):
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        default:
            utils.RespondWithError(w, http.StatusInternalServerError, "Failed to activate availability mode")
        }
        return
    }

    // A refused transition is a normal outcome, not an HTTP error; the
    // client branches on the reason code.
    if !result.Allowed {
        utils.RespondWithJSON(w, http.StatusConflict, result)
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    result, err := h.service.Deactivate(r.Context(), userID)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to deactivate availability mode")
        return
    }

    if !result.Allowed {
        utils.RespondWithJSON(w, http.StatusConflict, result)
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    mode, err := h.service.GetActive(r.Context(), userID)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load availability mode")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
        "active": mode != nil,
        "mode":   mode,
    })
}
