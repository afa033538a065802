package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rental-marketplace-api/config"
	"rental-marketplace-api/models"
)

// GetProperties lists available properties with optional filters.
func GetProperties(c *gin.Context) {
	var properties []models.Property
	query := config.DB.Where("delete_at IS NULL")

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if c.Query("available") == "true" {
		query = query.Where("available = ?", true)
	}
	if owner := c.Query("owner_id"); owner != "" {
		query = query.Where("owner_id = ?", owner)
	}

	if err := query.Find(&properties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch properties"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties, "total": len(properties)})
}

// GetProperty returns one property. Lookups are cached briefly since the
// listing page is read-heavy; lifecycle guard checks never use this cache.
func GetProperty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	cacheKey := propertyCacheKey(id)
	if cached, ok := getOwnershipCache().Get(cacheKey); ok {
		c.JSON(http.StatusOK, gin.H{"property": cached})
		return
	}

	var property models.Property
	if err := config.DB.Preload("Owner").
		Where("property_id = ? AND delete_at IS NULL", id).First(&property).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	getOwnershipCache().Set(cacheKey, property)

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// CreateProperty lists a new rental property.
func CreateProperty(c *gin.Context) {
	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		Address     string  `json:"address" binding:"required"`
		City        string  `json:"city" binding:"required"`
		MonthlyRent float64 `json:"monthly_rent" binding:"required"`
		Bedrooms    int     `json:"bedrooms"`
		Bathrooms   int     `json:"bathrooms"`
		AgentID     *int    `json:"agent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	actor := currentActor(c)
	now := time.Now()
	property := models.Property{
		OwnerID:     actor.ID,
		AgentID:     req.AgentID,
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		MonthlyRent: req.MonthlyRent,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Available:   true,
		CreateAt:    now,
		UpdateAt:    now,
	}
	if err := config.DB.Create(&property).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "property": property})
}

// UpdateProperty edits a listing. Owner or admin only.
func UpdateProperty(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}
	actor := currentActor(c)

	var property models.Property
	if err := config.DB.Where("property_id = ? AND delete_at IS NULL", id).First(&property).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if property.OwnerID != actor.ID && !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to edit this property"})
		return
	}

	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		MonthlyRent *float64 `json:"monthly_rent"`
		Available   *bool    `json:"available"`
		AgentID     *int     `json:"agent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.MonthlyRent != nil {
		updates["monthly_rent"] = *req.MonthlyRent
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if req.AgentID != nil {
		updates["agent_id"] = *req.AgentID
	}

	if err := config.DB.Model(&models.Property{}).
		Where("property_id = ?", id).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}

	// Stale listing data is acceptable for five minutes, stale ownership
	// after an edit is not.
	getOwnershipCache().Invalidate(propertyCacheKey(id))

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func propertyCacheKey(id int) string {
	return fmt.Sprintf("property:%d", id)
}
