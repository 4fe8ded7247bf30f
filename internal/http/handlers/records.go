package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/http/respond"
	"github.com/hongminglow/taskdesk/internal/middleware"
	"github.com/hongminglow/taskdesk/internal/service"
)

// RecordHandler serves the record listing.
type RecordHandler struct {
	records *service.RecordService
	authn   *middleware.Authenticator
	delay   *Delayer
	logger  *slog.Logger
}

// NewRecordHandler constructs the handler.
func NewRecordHandler(records *service.RecordService, authn *middleware.Authenticator, delay *Delayer, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{records: records, authn: authn, delay: delay, logger: logger}
}

// Register attaches record routes to the router.
func (h *RecordHandler) Register(r chi.Router) {
	r.Get("/records", h.authn.Require(access.OpReadRecord, h.handleList))
}

func (h *RecordHandler) handleList(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	h.delay.WaitQuery(r.URL.Query().Get("delay"))

	records, err := h.records.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, recordMessages, err)
		return
	}
	respond.JSON(w, http.StatusOK, records)
}
