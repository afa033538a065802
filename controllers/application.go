package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rental-marketplace-api/config"
	"rental-marketplace-api/models"
	"rental-marketplace-api/services"
)

type applicationContentRequest struct {
	PersonalInfo   models.JSONMap `json:"personal_info"`
	Employment     models.JSONMap `json:"employment"`
	RentalHistory  models.JSONMap `json:"rental_history"`
	Documents      models.JSONMap `json:"documents"`
	DocumentStatus models.JSONMap `json:"document_status"`
	CustomAnswers  models.JSONMap `json:"custom_answers"`
}

func (r applicationContentRequest) toContent() services.ApplicationContent {
	return services.ApplicationContent{
		PersonalInfo:   r.PersonalInfo,
		Employment:     r.Employment,
		RentalHistory:  r.RentalHistory,
		Documents:      r.Documents,
		DocumentStatus: r.DocumentStatus,
		CustomAnswers:  r.CustomAnswers,
	}
}

// CreateApplication opens a draft application for a property.
func CreateApplication(c *gin.Context) {
	var req struct {
		PropertyID int `json:"property_id" binding:"required"`
		applicationContentRequest
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	actor := currentActor(c)
	app, err := getAppService().CreateDraft(actor.ID, req.PropertyID, req.toContent())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Application created successfully",
		"application": app,
	})
}

// GetApplications lists the caller's applications; admins see everything.
func GetApplications(c *gin.Context) {
	actor := currentActor(c)

	var applications []models.Application
	query := config.DB.Preload("Property").Preload("History").
		Where("applications.delete_at IS NULL")

	if !actor.IsAdmin() {
		query = query.Where("user_id = ?", actor.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("property_id = ?", propertyID)
	}

	if err := query.Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetApplication returns one application, visible to the applicant, the
// property manager, or an admin.
func GetApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	actor := currentActor(c)

	var app models.Application
	if err := config.DB.Preload("Property").Preload("CoApplicants").Preload("History").
		Where("application_id = ? AND delete_at IS NULL", id).
		First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if app.UserID != actor.ID && !app.Property.ManagedBy(actor.ID) && !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app})
}

// UpdateApplication edits a draft's content sections.
func UpdateApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req applicationContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	app, err := getAppService().UpdateDraft(id, currentActor(c), req.toContent())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// DeleteApplication soft deletes; rows are retained for audit.
func DeleteApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	if err := getAppService().SoftDelete(id, currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application deleted"})
}

// AddCoApplicant attaches a co-applicant to an application.
func AddCoApplicant(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		FirstName     string         `json:"first_name" binding:"required"`
		LastName      string         `json:"last_name" binding:"required"`
		Email         string         `json:"email" binding:"required"`
		MonthlyIncome float64        `json:"monthly_income"`
		Employment    models.JSONMap `json:"employment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	co, err := getAppService().AddCoApplicant(id, currentActor(c), models.CoApplicant{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		MonthlyIncome: req.MonthlyIncome,
		Employment:    req.Employment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "co_applicant": co})
}

// RemoveCoApplicant detaches a co-applicant from an application.
func RemoveCoApplicant(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	coID, err := strconv.Atoi(c.Param("co_applicant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid co-applicant ID"})
		return
	}

	if err := getAppService().RemoveCoApplicant(id, coID, currentActor(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Co-applicant removed"})
}

// SubmitApplication moves a draft into review intake.
func SubmitApplication(c *gin.Context) {
	runTransition(c, func(id int, actor services.Actor) (*models.Application, error) {
		return getAppService().Submit(id, actor)
	}, "Application submitted successfully")
}

// StartReview moves a submitted application into under_review.
func StartReview(c *gin.Context) {
	runTransition(c, func(id int, actor services.Actor) (*models.Application, error) {
		return getAppService().StartReview(id, actor)
	}, "Application moved to review")
}

// ApproveApplication finalizes an application.
func ApproveApplication(c *gin.Context) {
	runTransition(c, func(id int, actor services.Actor) (*models.Application, error) {
		return getAppService().Approve(id, actor)
	}, "Application approved successfully")
}

// RejectApplication finalizes an application with a categorized reason.
func RejectApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		Category string `json:"category" binding:"required"`
		Reason   string `json:"reason" binding:"required"`
		Details  string `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection category and reason are required"})
		return
	}

	app, err := getAppService().Reject(id, currentActor(c), req.Category, req.Reason, req.Details)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application rejected", "application": app})
}

// RequestInfo asks the applicant for more information.
func RequestInfo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		Reason  string     `json:"reason" binding:"required"`
		DueDate *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reason is required"})
		return
	}

	app, err := getAppService().RequestInfo(id, currentActor(c), req.Reason, req.DueDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// ConditionallyApprove approves subject to listed requirements.
func ConditionallyApprove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		Requirements []string   `json:"requirements" binding:"required"`
		DueDate      *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requirements are required"})
		return
	}

	app, err := getAppService().ConditionallyApprove(id, currentActor(c), req.Requirements, req.DueDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// WithdrawApplication pulls the application at the applicant's request.
func WithdrawApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		Reason *string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	app, err := getAppService().Withdraw(id, currentActor(c), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application withdrawn", "application": app})
}

// ChangeApplicationStatus is the generic status command surface.
func ChangeApplicationStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		Status string  `json:"status" binding:"required"`
		Reason *string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	app, err := getAppService().ChangeStatus(id, req.Status, currentActor(c), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// RecalculateScore reruns the scoring engine and stores the breakdown.
func RecalculateScore(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	breakdown, err := getAppService().RecalculateScore(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "score_breakdown": breakdown})
}

// CompareApplications ranks a property's applications by score.
func CompareApplications(c *gin.Context) {
	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	applications, err := getAppService().CompareApplications(propertyID, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

func runTransition(c *gin.Context, fn func(int, services.Actor) (*models.Application, error), message string) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	app, err := fn(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "application": app})
}
