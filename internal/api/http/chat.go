package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/animekun/chatd/internal/api/middleware"
	"github.com/animekun/chatd/internal/llm"
	"github.com/animekun/chatd/internal/ratelimit"
	"github.com/animekun/chatd/internal/shared/types"
)

// Chat handles POST /api/chat: quota check, message assembly, then an
// incremental text stream of the model's answer.
func (h *Handlers) Chat(c *gin.Context) {
	requestID := uuid.NewString()
	log := h.logger.WithRequest(requestID)

	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "Le format de la requête est invalide.",
		})
		return
	}

	userID := middleware.UserID(c)
	quota := h.limiter.Check(c.Request.Context(), userID)
	setRateLimitHeaders(c, quota)

	if !quota.Success {
		h.metrics.RateLimited.Inc()
		log.Warn("rate limit exceeded", zap.String("user_id", userID))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limit exceeded",
			"message": fmt.Sprintf("Quota exceeded: %d requests. Try again after %s.",
				quota.Limit, quota.Reset.Format(time.RFC1123)),
		})
		return
	}

	if h.orch == nil {
		c.String(http.StatusInternalServerError, "Missing API key")
		return
	}

	messages := buildMessages(req)
	log.Info("processing chat request",
		zap.Int("messages", len(messages)),
		zap.Bool("image", req.Image != nil),
		zap.String("user_id", userID))

	reqCtx := &types.Context{
		AuthToken: middleware.Token(c),
		UserID:    userID,
	}

	events, err := h.orch.Run(c.Request.Context(), messages, reqCtx)
	if err != nil {
		log.Error("generation failed to start", zap.Error(err))
		status, body := Classify(err, h.cfg.Logging.Development)
		c.JSON(status, body)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("X-Request-Id", requestID)
	c.Status(http.StatusOK)

	streamed := false
	for event := range events {
		if event.Err != nil {
			// Headers are gone once the first chunk is out; fall back
			// to an inline error line the frontend renders as text.
			if !streamed {
				status, body := Classify(event.Err, h.cfg.Logging.Development)
				c.JSON(status, body)
				return
			}
			log.Error("generation failed mid-stream", zap.Error(event.Err))
			fmt.Fprint(c.Writer, "\n\n❌ La génération a été interrompue par une erreur. Réessayez.")
			c.Writer.Flush()
			return
		}
		if event.Text == "" {
			continue
		}
		if _, err := c.Writer.WriteString(event.Text); err != nil {
			log.Warn("client went away mid-stream", zap.Error(err))
			return
		}
		c.Writer.Flush()
		streamed = true
	}
}

// buildMessages converts the wire payload into model messages. An
// image attachment becomes a synthetic system message so the model
// knows it can hand the payload to an upload tool.
func buildMessages(req types.ChatRequest) []llm.Message {
	messages := make([]llm.Message, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	if req.Image != nil {
		name := req.Image.Name
		if name == "" {
			name = "image"
		}
		mime := req.Image.Type
		if mime == "" {
			mime = "image/png"
		}
		messages = append(messages, llm.Message{
			Role: types.RoleSystem,
			Content: fmt.Sprintf(
				"The admin attached an image to this message: filename=%q, type=%s. "+
					"To use it as a cover, call media_uploadBase64 with this exact base64 data: %s",
				name, mime, req.Image.Base64),
		})
	}

	return messages
}

func setRateLimitHeaders(c *gin.Context, quota ratelimit.Result) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(quota.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
	c.Header("X-RateLimit-Reset", quota.Reset.UTC().Format(time.RFC3339))
}
