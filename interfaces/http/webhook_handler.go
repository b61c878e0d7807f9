package http

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"video-bot/domain/dto"
	"video-bot/infrastructure/logger"
	"video-bot/infrastructure/signature"
	"video-bot/usecase"

	"github.com/gin-gonic/gin"
)

// IWebhookHandler handles the hub-facing webhook endpoint: subscription
// verification on GET and feed delivery on POST.
type IWebhookHandler interface {
	VerifyIntent(c *gin.Context)
	Notify(c *gin.Context)
}

type WebhookHandler struct {
	// appCtx outlives individual requests; renewals scheduled from a
	// verification request must survive the request but die with the process.
	appCtx        context.Context
	subscriptions usecase.ISubscriptionUsecase
	submissions   usecase.ISubmissionUsecase
	hmacSecret    string
}

func NewWebhookHandler(appCtx context.Context, subscriptions usecase.ISubscriptionUsecase, submissions usecase.ISubmissionUsecase, hmacSecret string) IWebhookHandler {
	return &WebhookHandler{
		appCtx:        appCtx,
		subscriptions: subscriptions,
		submissions:   submissions,
		hmacSecret:    hmacSecret,
	}
}

// VerifyIntent answers the hub's subscription verification request. The
// protocol requires echoing the challenge verbatim on success and never
// answering with an error status.
func (h *WebhookHandler) VerifyIntent(c *gin.Context) {
	topic := c.Query("hub.topic")
	challenge := c.Query("hub.challenge")
	mode := c.Query("hub.mode")

	body, ok := h.subscriptions.HandleVerificationChallenge(topic, challenge, mode)
	if !ok {
		logger.GetLogger().WithFields(map[string]interface{}{
			"topic": topic,
			"mode":  mode,
		}).Info("Ignoring hub verification request that does not match the configured topic")
		c.Status(http.StatusOK)
		return
	}

	if leaseSeconds, err := strconv.Atoi(c.Query("hub.lease_seconds")); err == nil {
		h.subscriptions.ScheduleRenewal(h.appCtx, leaseSeconds)
	}

	c.Data(http.StatusOK, "text/plain", []byte(body))
}

// Notify ingests a pushed feed notification. The hub always gets a 200
// regardless of the verification outcome; only the internal processing
// decision differs.
func (h *WebhookHandler) Notify(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to read the notification body")
		c.Status(http.StatusOK)
		return
	}

	if err := signature.Verify(c.GetHeader("X-Hub-Signature"), raw, h.hmacSecret); err != nil {
		logger.GetLogger().WithField("error", err).Error("Rejecting unauthenticated hub notification")
		c.Status(http.StatusOK)
		return
	}

	feed, err := dto.DecodeVideoFeed(raw)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to deserialize the Youtube video feed")
		c.Status(http.StatusOK)
		return
	}

	if err := h.submissions.HandleVideoUpdate(c.Request.Context(), feed); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to handle the video update")
	}
	c.Status(http.StatusOK)
}
