package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"notification-service/internal/domain"
	"notification-service/internal/usecase"
	"notification-service/pkg/response"
	"notification-service/pkg/xerrors"
)

type NotificationHandler struct {
	sender  *usecase.SendNotificationUsecase
	retrier *usecase.RetryNotificationUsecase
	queries *usecase.NotificationQueryUsecase
}

func NewNotificationHandler(
	sender *usecase.SendNotificationUsecase,
	retrier *usecase.RetryNotificationUsecase,
	queries *usecase.NotificationQueryUsecase,
) *NotificationHandler {
	return &NotificationHandler{
		sender:  sender,
		retrier: retrier,
		queries: queries,
	}
}

type sendNotificationRequest struct {
	UserID         string            `json:"userId"`
	Channel        string            `json:"channel"`
	Recipient      string            `json:"recipient"`
	Type           string            `json:"type"`
	Subject        string            `json:"subject"`
	Message        string            `json:"message"`
	Priority       string            `json:"priority"`
	TemplateID     string            `json:"templateId"`
	TemplateParams map[string]string `json:"templateParams"`
	CreatedBy      string            `json:"createdBy"`
}

// ----------------------
// Notification Handlers
// ----------------------

func (h *NotificationHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req sendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid input")
		return
	}

	channel := domain.Channel(req.Channel)
	if !channel.Valid() {
		response.Error(w, http.StatusBadRequest, "invalid channel")
		return
	}
	if req.UserID == "" || req.Recipient == "" {
		response.Error(w, http.StatusBadRequest, "userId and recipient are required")
		return
	}

	n, err := h.sender.Create(r.Context(), domain.Notification{
		UserID:         req.UserID,
		Channel:        channel,
		Recipient:      req.Recipient,
		Type:           domain.NotificationType(req.Type),
		Subject:        req.Subject,
		Message:        req.Message,
		Priority:       domain.Priority(req.Priority),
		TemplateID:     req.TemplateID,
		TemplateParams: req.TemplateParams,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		writeNotificationError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) RetryNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.retrier.Retry(r.Context(), id)
	if err != nil {
		writeNotificationError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.queries.FindByID(r.Context(), id)
	if err != nil {
		writeNotificationError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.queries.FindByUserID(r.Context(), userID, limit, offset)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) ListUnreadByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	items, err := h.queries.FindUnreadByUserID(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.Status(chi.URLParam(r, "status"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.queries.FindByStatus(r.Context(), status, limit, offset)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.queries.MarkAsRead(r.Context(), id)
	if err != nil {
		writeNotificationError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) MarkAsDelivered(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.queries.MarkAsDelivered(r.Context(), id)
	if err != nil {
		writeNotificationError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, n)
}

func writeNotificationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotificationNotFound):
		response.Error(w, http.StatusNotFound, "notification not found")
	case errors.Is(err, xerrors.ErrTemplateNotFound):
		response.Error(w, http.StatusNotFound, "template not found")
	case errors.Is(err, xerrors.ErrRetryExhausted):
		response.Error(w, http.StatusConflict, "max retries reached for notification")
	case errors.Is(err, xerrors.ErrInvalidTransition):
		response.Error(w, http.StatusConflict, "invalid notification state transition")
	case errors.Is(err, xerrors.ErrStaleAggregate):
		response.Error(w, http.StatusConflict, "notification was modified concurrently")
	default:
		response.Error(w, http.StatusInternalServerError, err.Error())
	}
}
