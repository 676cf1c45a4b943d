package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"dhonk_backend/internal/entities"
	"dhonk_backend/internal/logger"
	"dhonk_backend/internal/metrics"
)

const StatusMessage = "✅ Dhonk Craft Backend is running!"

// ChatAnswerer produces the answer for one chat message.
type ChatAnswerer interface {
	Answer(ctx context.Context, msg entities.Message) entities.Answer
}

type Handler struct {
	chat ChatAnswerer
}

func NewHandler(chat ChatAnswerer) *Handler {
	return &Handler{chat: chat}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// SetupRoutes registers middleware and the public endpoints on r.
func SetupRoutes(r *gin.Engine, chat ChatAnswerer, m *metrics.Metrics, log logger.Logger) {
	h := NewHandler(chat)

	r.Use(Recovery(log))
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(MaxBodyBytes))
	r.Use(CORS())

	r.GET("/", h.HandleStatus)
	r.POST("/chat", h.HandleChat)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
}

func (h *Handler) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": StatusMessage})
}

// HandleChat answers {"message": ...}. A body that cannot be decoded counts
// as an empty message.
func (h *Handler) HandleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Message = ""
	}

	answer := h.chat.Answer(c.Request.Context(), entities.Message{
		RequestID: c.GetString(requestIDKey),
		Content:   SanitizeString(req.Message),
		ClientIP:  c.ClientIP(),
	})
	c.JSON(answer.Status, chatResponse{Answer: answer.Text})
}
