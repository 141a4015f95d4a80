package catalog

import (
	"net/http"

	"streaming-app/database"
	"streaming-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

type TitleDTO struct {
	ID     uint   `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Policy string `json:"payment_policy"`
}

func toDTO(t catalog.Title) TitleDTO {
	return TitleDTO{
		ID:     t.ID,
		Slug:   t.Slug,
		Name:   t.Name,
		Price:  t.Price,
		Policy: string(t.Policy()),
	}
}

// GET /titles
func ListTitles(c *gin.Context) {
	var titles []catalog.Title
	if err := database.DB.Order("name").Find(&titles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load titles"})
		return
	}

	out := make([]TitleDTO, 0, len(titles))
	for _, t := range titles {
		out = append(out, toDTO(t))
	}
	c.JSON(http.StatusOK, out)
}

// GET /titles/:slug
func GetTitle(c *gin.Context) {
	var title catalog.Title
	if err := database.DB.Where("slug = ?", c.Param("slug")).First(&title).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Title not found"})
		return
	}
	c.JSON(http.StatusOK, toDTO(title))
}

// GET /watch/:slug — behind RequireEntitlement. Video delivery itself is
// a separate system; this returns the playback descriptor the player
// loads.
func Watch(c *gin.Context) {
	value, exists := c.Get("title")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Title not resolved"})
		return
	}
	title := value.(catalog.Title)

	c.JSON(http.StatusOK, gin.H{
		"title":      toDTO(title),
		"stream_ref": title.Slug,
	})
}
