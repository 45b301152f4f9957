package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"ai-blog-writer-api/internal/infrastructure/session"
	"ai-blog-writer-api/internal/interfaces/http/dto"
	"ai-blog-writer-api/pkg/logger"
)

// SessionHandler 会话管理处理器
type SessionHandler struct {
	store session.Store
}

// NewSessionHandler 创建会话管理处理器
func NewSessionHandler(store session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// Clear 清除一个会话的全部缓存产物
// DELETE /v1/sessions/:id
func (h *SessionHandler) Clear(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("id"))
	if sessionID == "" {
		dto.BadRequest(c, "session id is required")
		return
	}

	if err := h.store.Clear(c.Request.Context(), sessionID); err != nil {
		logger.Error(c.Request.Context(), "session clear failed", err, "session_id", sessionID)
		dto.InternalError(c, "failed to clear session")
		return
	}
	dto.NoContent(c)
}
