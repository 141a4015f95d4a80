package users

import (
	"net/http"

	"streaming-app/database"
	"streaming-app/internal/domain/entitlement"
	"streaming-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type UserDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role"`
}

type OwnedTitleDTO struct {
	TitleID     uint   `json:"title_id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	PurchasedAt string `json:"purchased_at"`
}

type MeResponse struct {
	User   UserDTO         `json:"user"`
	Movies []OwnedTitleDTO `json:"movies"`
}

// GET /me — the signed-in user's profile plus the titles they own. The
// frontend uses the owned list to route the play button straight to the
// watch page instead of the payment flow.
func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	store := entitlement.NewGormStore(database.DB)
	owned, err := store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load owned titles"})
		return
	}

	movies := make([]OwnedTitleDTO, 0, len(owned))
	for _, e := range owned {
		movies = append(movies, OwnedTitleDTO{
			TitleID:     e.TitleID,
			Slug:        e.Title.Slug,
			Name:        e.Title.Name,
			PurchasedAt: e.PurchasedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, MeResponse{
		User: UserDTO{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Image: user.Image,
			Role:  user.Role,
		},
		Movies: movies,
	})
}
