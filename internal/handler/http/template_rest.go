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

type TemplateHandler struct {
	uc *usecase.TemplateUsecase
}

func NewTemplateHandler(uc *usecase.TemplateUsecase) *TemplateHandler {
	return &TemplateHandler{uc: uc}
}

type createTemplateRequest struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Channel   string   `json:"channel"`
	Subject   string   `json:"subject"`
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
	CreatedBy string   `json:"createdBy"`
}

type updateTemplateRequest struct {
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
	UpdatedBy string   `json:"updatedBy"`
}

func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid input")
		return
	}

	channel := domain.Channel(req.Channel)
	if req.Code == "" || !channel.Valid() {
		response.Error(w, http.StatusBadRequest, "code and a valid channel are required")
		return
	}

	t, err := h.uc.Create(r.Context(), domain.NotificationTemplate{
		Code:      req.Code,
		Name:      req.Name,
		Channel:   channel,
		Subject:   req.Subject,
		Template:  req.Template,
		Variables: req.Variables,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	t, err := h.uc.FindByCode(r.Context(), code)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	if channel := r.URL.Query().Get("channel"); channel != "" {
		items, err := h.uc.FindByChannel(r.Context(), domain.Channel(channel))
		if err != nil {
			response.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}

	items, err := h.uc.FindActive(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req updateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid input")
		return
	}

	t, err := h.uc.UpdateContent(r.Context(), code, req.Template, req.Variables, req.UpdatedBy)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) ActivateTemplate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	t, err := h.uc.Activate(r.Context(), code)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) DeactivateTemplate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	t, err := h.uc.Deactivate(r.Context(), code)
	if err != nil {
		writeTemplateError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

func writeTemplateError(w http.ResponseWriter, err error) {
	if errors.Is(err, xerrors.ErrTemplateNotFound) {
		response.Error(w, http.StatusNotFound, "template not found")
		return
	}
	response.Error(w, http.StatusInternalServerError, err.Error())
}
