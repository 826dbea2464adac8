package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"clubhouse/internal/reservations/repository"
	"clubhouse/internal/reservations/service"
	apperrors "clubhouse/pkg/errors"
	httputil "clubhouse/pkg/http"
	"clubhouse/pkg/logger"
	"clubhouse/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var input model.ReservationCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	reservation, err := h.service.Create(r.Context(), callerID, &input)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	reservation, err := h.service.GetByID(r.Context(), callerID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ReservationHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	query := r.URL.Query()
	resourceID := query.Get("resource_id")

	var startTime, endTime *time.Time
	if s := query.Get("start_time"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeError(w, "Search", apperrors.InvalidInput("invalid start_time format, must be RFC3339"))
			return
		}
		startTime = &parsed
	}
	if s := query.Get("end_time"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeError(w, "Search", apperrors.InvalidInput("invalid end_time format, must be RFC3339"))
			return
		}
		endTime = &parsed
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	reservations, total, err := h.service.Search(r.Context(), callerID, resourceID, startTime, endTime, limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

func (h *ReservationHandler) ListByStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "ListByStatus", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByStatus", err)
		return
	}

	status := model.ReservationStatus(ps.ByName("status"))
	reservations, total, err := h.service.ListByStatus(r.Context(), callerID, status, limit, offset)
	if err != nil {
		h.writeError(w, "ListByStatus", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByStatus", "error", err)
	}
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	scope := repository.OwnerScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = repository.ScopeUpcoming
	}

	reservations, err := h.service.ListMine(r.Context(), callerID, scope, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "error", err)
	}
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var updates model.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	reservation, err := h.service.Update(r.Context(), callerID, ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *ReservationHandler) UpdateOwner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "UpdateOwner", err)
		return
	}

	var body struct {
		OwnerID string `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "UpdateOwner", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.UpdateOwner(r.Context(), callerID, ps.ByName("id"), body.OwnerID); err != nil {
		h.writeError(w, "UpdateOwner", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

func (h *ReservationHandler) ConfirmAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "ConfirmAll", err)
		return
	}

	var body struct {
		ReservationIDs []string `json:"reservation_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "ConfirmAll", apperrors.InvalidInput("Invalid request body"))
		return
	}

	count, err := h.service.ConfirmAll(r.Context(), callerID, body.ReservationIDs)
	if err != nil {
		h.writeError(w, "ConfirmAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int{"confirmed": count}); err != nil {
		h.log.Error("failed to write success response", "handler", "ConfirmAll", "error", err)
	}
}

func (h *ReservationHandler) RejectAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "RejectAll", err)
		return
	}

	var body struct {
		ReservationIDs []string `json:"reservation_ids"`
		Message        string   `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "RejectAll", apperrors.InvalidInput("Invalid request body"))
		return
	}

	count, err := h.service.RejectAll(r.Context(), callerID, body.ReservationIDs, body.Message)
	if err != nil {
		h.writeError(w, "RejectAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int{"rejected": count}); err != nil {
		h.log.Error("failed to write success response", "handler", "RejectAll", "error", err)
	}
}

func (h *ReservationHandler) Return(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, err := httputil.ExtractMemberID(r)
	if err != nil {
		h.writeError(w, "Return", err)
		return
	}

	var input model.ReservationReturn
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Return", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Return(r.Context(), callerID, ps.ByName("id"), &input); err != nil {
		h.writeError(w, "Return", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations/search", h.Search)
	router.GET("/api/v1/reservations/mine", h.ListMine)
	router.GET("/api/v1/reservations/status/:status", h.ListByStatus)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id", h.Update)
	router.PATCH("/api/v1/reservations/id/:id/owner", h.UpdateOwner)
	router.DELETE("/api/v1/reservations/id/:id", h.Delete)
	router.POST("/api/v1/reservations/id/:id/return", h.Return)
	router.POST("/api/v1/reservations/confirm-all", h.ConfirmAll)
	router.POST("/api/v1/reservations/reject-all", h.RejectAll)
}
