package shared

import (
	"log/slog"
	"net/http"

	"folha/internal/domain/audit"
	"folha/internal/transport/http/middleware"
)

// RecordAudit appends to the audit trail on behalf of the current operator.
// A failed write is logged and never fails the request.
func RecordAudit(r *http.Request, svc *audit.Service, action, entityType, entityID string, before, after any) {
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.Email
	}
	requestID := middleware.GetRequestID(r.Context())
	if err := svc.Record(r.Context(), actor, action, entityType, entityID, requestID, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "requestId", requestID, "err", err)
	}
}
