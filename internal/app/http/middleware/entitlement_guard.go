package middleware

import (
	"net/http"

	"streaming-app/database"
	"streaming-app/internal/domain/catalog"
	"streaming-app/internal/domain/entitlement"

	"github.com/gin-gonic/gin"
)

// RequireEntitlement guards playback routes: the resolver runs again on
// every watch request, so a title is only ever served to a caller who is
// allowed right now. The resolved title is stored in the context for the
// handler.
func RequireEntitlement() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		var title catalog.Title
		if err := database.DB.Where("slug = ?", slug).First(&title).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Title not found"})
			return
		}

		resolver := entitlement.NewResolver(entitlement.NewGormStore(database.DB))
		verdict, err := resolver.Resolve(c.Request.Context(), c.GetUint("user_id"), title)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Entitlement check failed"})
			return
		}

		if !verdict.Allowed {
			status := http.StatusPaymentRequired
			if verdict.Reason == entitlement.ReasonUnauthenticated {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{
				"error":  "Not entitled to stream this title",
				"reason": verdict.Reason,
				"policy": verdict.Policy,
			})
			return
		}

		c.Set("title", title)
		c.Next()
	}
}
