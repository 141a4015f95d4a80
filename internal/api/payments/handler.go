package payments

import (
	"errors"
	"net/http"

	"streaming-app/database"
	"streaming-app/internal/domain/billing"
	"streaming-app/internal/domain/catalog"
	"streaming-app/internal/domain/entitlement"
	"streaming-app/internal/domain/payment"
	"streaming-app/internal/infra/izipay"
	"streaming-app/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

// The orchestrator holds in-flight attempts between the session request
// and the gateway callback, so it is a process-wide singleton wired in
// main.
var (
	orch    *payment.Orchestrator
	gateway *izipay.Client
)

func Init(o *payment.Orchestrator, g *izipay.Client) {
	orch = o
	gateway = g
}

type sessionRequest struct {
	Slug string `json:"slug"`
}

type sessionResponse struct {
	TransactionID string            `json:"transaction_id"`
	Token         string            `json:"token"`
	FormConfig    izipay.FormConfig `json:"form_config"`
}

// POST /payments/session — start a purchase attempt for a title and
// return the hosted-form hand-off.
func CreateSession(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body sessionRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid slug"})
		return
	}

	var title catalog.Title
	if err := database.DB.Where("slug = ?", body.Slug).First(&title).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Title not found"})
		return
	}

	resolver := entitlement.NewResolver(entitlement.NewGormStore(database.DB))
	verdict, err := resolver.Resolve(c.Request.Context(), userID, title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Entitlement check failed"})
		return
	}
	if verdict.Allowed {
		// Free or already owned; nothing to pay for.
		c.JSON(http.StatusConflict, gin.H{"error": "Title is already watchable", "reason": verdict.Reason})
		return
	}

	attempt, err := orch.Begin(c.Request.Context(), userID, title.ID, title.Price)
	switch {
	case errors.Is(err, payment.ErrAlreadyInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "A payment for this title is already in progress"})
		return
	case errors.Is(err, payment.ErrTokenError):
		metrics.PaymentAttemptsFailed.WithLabelValues(string(payment.ReasonTokenError)).Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable, try again"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.PaymentAttemptsStarted.Inc()
	c.JSON(http.StatusOK, sessionResponse{
		TransactionID: attempt.TransactionID,
		Token:         attempt.Token,
		FormConfig:    gateway.FormConfigFor(attempt),
	})
}

type callbackRequest struct {
	TransactionID string `json:"transaction_id"`
	Code          string `json:"code"`
}

// POST /payments/callback — the hosted form's result code. Code "00"
// settles and grants; any other code is a decline.
func Callback(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body callbackRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.TransactionID == "" || body.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing transaction_id or code"})
		return
	}

	attempt, err := orch.Complete(c.Request.Context(), userID, body.TransactionID, body.Code)
	switch {
	case errors.Is(err, payment.ErrUnknownAttempt):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown or finished payment attempt"})
		return
	case errors.Is(err, payment.ErrDeclined):
		metrics.PaymentAttemptsFailed.WithLabelValues(string(payment.ReasonDeclined)).Inc()
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment declined or cancelled, try again", "state": attempt.State})
		return
	case errors.Is(err, payment.ErrSettlementError):
		metrics.PaymentAttemptsFailed.WithLabelValues(string(payment.ReasonSettlementError)).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment received but not yet applied; support has been notified"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.PaymentAttemptsGranted.Inc()
	c.JSON(http.StatusOK, gin.H{"state": attempt.State, "transaction_id": attempt.TransactionID})
}

// DELETE /payments/session/:transactionId — the user navigated away
// before the form called back; drop the attempt.
func AbandonSession(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := orch.Abandon(c.Request.Context(), userID, c.Param("transactionId")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown or finished payment attempt"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /payments — the caller's settled payment history.
func GetPaymentHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var rows []billing.Payment
	if err := database.DB.
		Preload("Title").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
