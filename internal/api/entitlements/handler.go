package entitlements

import (
	"net/http"

	"streaming-app/database"
	"streaming-app/internal/domain/catalog"
	"streaming-app/internal/domain/entitlement"
	"streaming-app/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

// GET /entitlements/:slug — can the caller watch this title right now.
// Runs under OptionalAuth: an anonymous caller gets a verdict telling
// the frontend to route to sign-in.
func Resolve(c *gin.Context) {
	var title catalog.Title
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&title).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Title not found"})
		return
	}

	resolver := entitlement.NewResolver(entitlement.NewGormStore(database.DB))
	verdict, err := resolver.Resolve(c.Request.Context(), c.GetUint("user_id"), title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Entitlement check failed"})
		return
	}

	metrics.EntitlementChecks.WithLabelValues(string(verdict.Reason)).Inc()
	c.JSON(http.StatusOK, verdict)
}
