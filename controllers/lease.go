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

type leaseDraftRequest struct {
	RentAmount       *float64       `json:"rent_amount"`
	SecurityDeposit  *float64       `json:"security_deposit"`
	RentDueDay       *int           `json:"rent_due_day"`
	LeaseStartDate   *time.Time     `json:"lease_start_date"`
	LeaseEndDate     *time.Time     `json:"lease_end_date"`
	Content          *string        `json:"content"`
	CustomClauses    models.JSONMap `json:"custom_clauses"`
	SignatureEnabled *bool          `json:"signature_enabled"`
	TemplateID       *int           `json:"template_id"`
}

func (r leaseDraftRequest) toInput() services.LeaseDraftInput {
	return services.LeaseDraftInput{
		RentAmount:       r.RentAmount,
		SecurityDeposit:  r.SecurityDeposit,
		RentDueDay:       r.RentDueDay,
		LeaseStartDate:   r.LeaseStartDate,
		LeaseEndDate:     r.LeaseEndDate,
		Content:          r.Content,
		CustomClauses:    r.CustomClauses,
		SignatureEnabled: r.SignatureEnabled,
	}
}

// CreateLeaseDraft opens version 1 of the lease draft.
func CreateLeaseDraft(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req leaseDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	draft, err := getLeaseService().CreateDraft(id, currentActor(c), req.toInput(), req.TemplateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "draft": draft})
}

// UpdateLeaseDraft edits the draft, bumping its version.
func UpdateLeaseDraft(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req leaseDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	draft, err := getLeaseService().UpdateDraft(id, currentActor(c), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "draft": draft})
}

// GetLeaseDraft returns the current draft with its change history.
func GetLeaseDraft(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	actor := currentActor(c)

	var app models.Application
	if err := config.DB.Preload("Property").
		Where("application_id = ? AND delete_at IS NULL", id).First(&app).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if app.UserID != actor.ID && !app.Property.ManagedBy(actor.ID) && !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this lease"})
		return
	}

	var draft models.LeaseDraft
	if err := config.DB.Preload("Changes").
		Where("application_id = ? AND delete_at IS NULL", id).
		Order("version DESC").First(&draft).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lease draft not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// MarkLeaseReady flags the current draft version as ready to send.
func MarkLeaseReady(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	draft, err := getLeaseService().MarkReady(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "draft": draft})
}

// SendLease marks the draft sent and notifies the tenant.
func SendLease(c *gin.Context) {
	runLeaseAction(c, getLeaseService().Send, "Lease sent to tenant")
}

// AcceptLease is the tenant accepting the lease terms.
func AcceptLease(c *gin.Context) {
	runLeaseAction(c, getLeaseService().Accept, "Lease accepted")
}

// DeclineLease is the tenant declining the lease terms.
func DeclineLease(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		Reason *string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	app, err := getLeaseService().Decline(id, currentActor(c), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lease declined", "application": app})
}

// ReworkLease reopens a declined lease for editing.
func ReworkLease(c *gin.Context) {
	runLeaseAction(c, getLeaseService().Rework, "Lease reopened for editing")
}

// SignLease records the tenant signature.
func SignLease(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	signature, err := getLeaseService().Sign(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "signature": signature})
}

// CountersignLease records the landlord-side signature.
func CountersignLease(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	signature, err := getLeaseService().Countersign(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "signature": signature})
}

// PrepareMoveIn stores move-in instructions and advances the workflow.
func PrepareMoveIn(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		KeyPickup    string                   `json:"key_pickup"`
		AccessCodes  string                   `json:"access_codes"`
		UtilityNotes string                   `json:"utility_notes"`
		Checklist    []services.ChecklistItem `json:"checklist"`
		MoveInDate   *time.Time               `json:"move_in_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	app, err := getLeaseService().PrepareMoveIn(id, currentActor(c), services.MoveInDetails{
		KeyPickup:    req.KeyPickup,
		AccessCodes:  req.AccessCodes,
		UtilityNotes: req.UtilityNotes,
		Checklist:    req.Checklist,
		MoveInDate:   req.MoveInDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// UpdateChecklist patches individual move-in checklist items.
func UpdateChecklist(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}
	var req struct {
		Items []services.ChecklistUpdate `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Checklist items are required"})
		return
	}

	app, err := getLeaseService().UpdateChecklist(id, currentActor(c), req.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// CompleteLease closes out the workflow after move-in.
func CompleteLease(c *gin.Context) {
	runLeaseAction(c, getLeaseService().Complete, "Lease workflow completed")
}

func runLeaseAction(c *gin.Context, fn func(int, services.Actor) (*models.Application, error), message string) {
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
