package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notification-service/internal/domain"
	"notification-service/internal/usecase"
	"notification-service/pkg/response"
	"notification-service/pkg/xerrors"
)

type PreferenceHandler struct {
	uc *usecase.PreferenceUsecase
}

func NewPreferenceHandler(uc *usecase.PreferenceUsecase) *PreferenceHandler {
	return &PreferenceHandler{uc: uc}
}

func (h *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	pref, err := h.uc.FindByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrPreferenceNotFound) {
			response.Error(w, http.StatusNotFound, "preferences not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, pref)
}

func (h *PreferenceHandler) UpsertPreference(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var pref domain.NotificationPreference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid input")
		return
	}
	pref.UserID = userID

	saved, err := h.uc.Upsert(r.Context(), pref)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, saved)
}

// ResolveChannels exposes the channel resolution used at dispatch time, so
// clients can preview where a notification of a given type would go.
func (h *PreferenceHandler) ResolveChannels(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	notifType := domain.NotificationType(r.URL.Query().Get("type"))

	channels, err := h.uc.ResolveChannels(r.Context(), userID, notifType)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	primary, err := h.uc.ResolvePrimary(r.Context(), userID, notifType)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"channels": channels,
		"primary":  primary,
	})
}
