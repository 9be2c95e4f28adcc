package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
)

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	auditService *service.AuditService
}

func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListAuditLogs godoc
// GET /api/v1/admin/audit-logs?learner_id=
// Returns the most recent audit entries, newest first.
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	learnerID, ok := queryID(c, "learner_id")
	if !ok {
		return
	}

	logs, err := h.auditService.List(c.Request.Context(), learnerID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"audit_logs": logs, "limit": service.AuditLogLimit})
}
