package admin

import (
	"net/http"
	"time"

	"streaming-app/database"
	"streaming-app/internal/domain/billing"
	"streaming-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminPayment struct {
	ID            uint   `json:"id"`
	TransactionID string `json:"transaction_id"`
	Email         string `json:"email"`
	TitleName     string `json:"title"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

func AdminDashboard(c *gin.Context) {
	var userCount, paymentCount, openCases int64
	database.DB.Model(&users.User{}).Count(&userCount)
	database.DB.Model(&billing.Payment{}).Count(&paymentCount)
	database.DB.Model(&billing.ReconciliationCase{}).Where("resolved = false").Count(&openCases)

	c.JSON(http.StatusOK, gin.H{
		"total_users":          userCount,
		"total_payments":       paymentCount,
		"open_reconciliations": openCases,
	})
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var out []AdminUser
	for _, u := range all {
		out = append(out, AdminUser{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	if err := database.DB.Preload("User").Preload("Title").Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	var out []AdminPayment
	for _, p := range payments {
		out = append(out, AdminPayment{
			ID:            p.ID,
			TransactionID: p.TransactionID,
			Email:         p.User.Email,
			TitleName:     p.Title.Name,
			Amount:        p.Amount,
			Currency:      p.Currency,
			Status:        p.Status,
			CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// ListReconciliationCases returns the open paid-but-unentitled cases.
// These need an operator decision; the backend never retries them on
// its own.
func ListReconciliationCases(c *gin.Context) {
	var cases []billing.ReconciliationCase
	if err := database.DB.Where("resolved = false").Order("created_at").Find(&cases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reconciliation cases"})
		return
	}
	c.JSON(http.StatusOK, cases)
}
