package engagement

import (
    "encoding/json"
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

    snapshot, err := h.service.GetScore(r.Context(), userID)
    if err != nil {
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get engagement score")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, &ScoreResponse{
        TotalScore: snapshot.TotalScore,
        Level:      snapshot.Level,
        SubScores: SubScores{
            Responsiveness: snapshot.ResponsivenessScore,
            Conversation:   snapshot.ConversationScore,
            Meeting:        snapshot.MeetingScore,
            Activity:       snapshot.ActivityScore,
        },
        HasEnoughData:        snapshot.HasEnoughData,
        VisibilityMultiplier: snapshot.VisibilityMultiplier,
    })
}

func (h *Handler) RefreshScore(w http.ResponseWriter, r *http.Request) {
    userID := r.Context().Value("userID").(int64)

    result, err := h.service.RefreshScore(r.Context(), userID)
    if err != nil {
        if errors.Is(err, ErrInvalidMetrics) {
            utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to refresh engagement score")
        return
    }

    utils.RespondWithJSON(w, http.StatusOK, result)
}

// GrantBoost is an admin/system endpoint; the target user comes from the path.
func (h *Handler) GrantBoost(w http.ResponseWriter, r *http.Request) {
    vars := mux.Vars(r)
    userID, err := strconv.ParseInt(vars["userId"], 10, 64)
    if err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
        return
    }

    var dto GrantBoostDTO
    if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
        return
    }

    if err := utils.ValidateStruct(&dto); err != nil {
        utils.RespondWithError(w, http.StatusBadRequest, err.Error())
        return
    }

    boost, err := h.service.GrantBoost(r.Context(), userID, &dto)
    if err != nil {
        if errors.Is(err, ErrInvalidBoost) {
            utils.RespondWithError(w, http.StatusBadRequest, err.Error())
            return
        }
        utils.RespondWithError(w, http.StatusInternalServerError, "Failed to grant boost")
        return
    }

    utils.RespondWithJSON(w, http.StatusCreated, boost)
}
