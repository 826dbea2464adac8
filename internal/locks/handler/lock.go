package handler

import (
	"encoding/json"
	"net/http"

	"clubhouse/internal/locks/service"
	apperrors "clubhouse/pkg/errors"
	httputil "clubhouse/pkg/http"
	"clubhouse/pkg/logger"
	"clubhouse/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type LockHandler struct {
	service service.LockService
	log     *logger.Logger
}

func NewLockHandler(service service.LockService, log *logger.Logger) *LockHandler {
	return &LockHandler{
		service: service,
		log:     log,
	}
}

func (h *LockHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var input model.LockCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	lock, err := h.service.Create(r.Context(), callerID, &input)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, lock); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *LockHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	lock, err := h.service.GetByID(r.Context(), callerID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, lock); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *LockHandler) ListBetween(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "ListBetween", err)
		return
	}

	period, err := httputil.ExtractPeriod(r)
	if err != nil {
		h.writeError(w, "ListBetween", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListBetween", err)
		return
	}

	locks, err := h.service.ListBetween(r.Context(), callerID, r.URL.Query().Get("resource_id"), period, limit, offset)
	if err != nil {
		h.writeError(w, "ListBetween", err)
		return
	}

	if err := httputil.WriteSuccess(w, locks); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBetween", "error", err)
	}
}

func (h *LockHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var updates model.LockUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	lock, err := h.service.Update(r.Context(), callerID, ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, lock); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *LockHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), callerID, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *LockHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *LockHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/locks", h.Create)
	router.GET("/api/v1/locks", h.ListBetween)
	router.GET("/api/v1/locks/id/:id", h.GetByID)
	router.PATCH("/api/v1/locks/id/:id", h.Update)
	router.DELETE("/api/v1/locks/id/:id", h.Delete)
}
