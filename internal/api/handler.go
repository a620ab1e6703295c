package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wastebot/internal/domain"
)

// Responder answers a chat message.
type Responder interface {
	Process(ctx context.Context, message string) string
}

// Suggester produces follow-up suggestion questions for an exchange.
type Suggester interface {
	Generate(ctx context.Context, userMessage, botResponse string) []string
}

// Rebuilder re-indexes the knowledge base and reports the chunk count.
type Rebuilder interface {
	Rebuild(ctx context.Context) (int, error)
}

const unknownActionReply = "I didn't recognize that quick action. Try asking your question in your own words."

// Quick actions map widget buttons to canned questions so they flow
// through the same pipeline as typed messages.
var actionQuestions = map[string]string{
	domain.ActionSchedule:     "Show me my waste collection schedule",
	domain.ActionRecycleGuide: "What's the guide for recycling different materials?",
	domain.ActionReportIssue:  "I want to report an issue with waste collection",
	domain.ActionTips:         "Share some eco-friendly waste management tips",
}

// ChatHandler serves the chat and admin endpoints.
type ChatHandler struct {
	responder Responder
	suggester Suggester
	rebuilder Rebuilder
	logger    *zap.Logger
}

// NewChatHandler creates the handler.
func NewChatHandler(responder Responder, suggester Suggester, rebuilder Rebuilder, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{responder: responder, suggester: suggester, rebuilder: rebuilder, logger: logger}
}

// Chat handles POST /api/chat. A request must carry exactly one of a
// free-text message or a quick action.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if (req.Message == "") == (req.Action == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide exactly one of message or action"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	message := req.Message
	if req.Action != "" {
		q, ok := actionQuestions[req.Action]
		if !ok {
			c.JSON(http.StatusOK, domain.ChatResponse{
				Response:    unknownActionReply,
				Suggestions: h.suggester.Generate(c.Request.Context(), "", ""),
				SessionID:   sessionID,
			})
			return
		}
		message = q
	}

	h.logger.Info("chat request",
		zap.String("session_id", sessionID),
		zap.Bool("action", req.Action != ""),
	)

	reply := h.responder.Process(c.Request.Context(), message)
	c.JSON(http.StatusOK, domain.ChatResponse{
		Response:    reply,
		Suggestions: h.suggester.Generate(c.Request.Context(), message, reply),
		SessionID:   sessionID,
	})
}

// Reindex handles POST /api/admin/reindex.
func (h *ChatHandler) Reindex(c *gin.Context) {
	chunks, err := h.rebuilder.Rebuild(c.Request.Context())
	if err != nil {
		h.logger.Error("reindex failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reindex failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "chunks": chunks})
}
