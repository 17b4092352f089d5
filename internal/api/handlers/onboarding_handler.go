package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirebridge/hirebridge/internal/services"
	"github.com/hirebridge/hirebridge/internal/utils"
)

type OnboardingHandler struct {
	svc services.OnboardingService
}

func NewOnboardingHandler(svc services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

func (h *OnboardingHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.svc.Start(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

func (h *OnboardingHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.svc.Get(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat streams the assistant reply as SSE: "delta" events carry visible
// text as it arrives, a final "done" event carries the full result, and
// an "error" event ends a stream that failed mid-flight.
func (h *OnboardingHandler) Chat(c *gin.Context) {
	const op = "OnboardingHandler.Chat"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid json body", err))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		writeError(c, utils.E(utils.CodeInternal, op, "streaming not supported", nil))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	emit := func(delta string) error {
		c.SSEvent("delta", gin.H{"text": delta})
		flusher.Flush()
		return nil
	}

	res, err := h.svc.Chat(c.Request.Context(), userID, c.Param("session_id"), req.Message, emit)
	if err != nil {
		var ae *utils.AppError
		msg := "stream failed"
		code := utils.CodeInternal
		if errors.As(err, &ae) {
			msg = ae.Message
			code = ae.Code
		}
		c.SSEvent("error", gin.H{"code": code, "message": msg})
		flusher.Flush()
		return
	}

	c.SSEvent("done", res)
	flusher.Flush()
}
