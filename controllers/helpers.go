package controllers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"rental-marketplace-api/config"
	"rental-marketplace-api/services"
)

var (
	wireOnce        sync.Once
	appService      *services.ApplicationService
	leaseService    *services.LeaseService
	paymentService  *services.PaymentService
	notifyService   *services.NotificationService
	auditService    *services.AuditService
	ownershipCache  *services.Cache
)

// wire builds the service graph once the database is connected. Controllers
// call the accessors below instead of touching the vars directly.
func wire() {
	wireOnce.Do(func() {
		notifyService = services.NewNotificationService(config.DB)
		auditService = services.NewAuditService(config.DB)
		appService = services.NewApplicationService(config.DB, notifyService, auditService)
		leaseService = services.NewLeaseService(config.DB, notifyService, auditService)
		paymentService = services.NewPaymentService(config.DB, notifyService, auditService)
		ownershipCache = services.NewCache(5 * time.Minute)
	})
}

func getAppService() *services.ApplicationService {
	wire()
	return appService
}

func getLeaseService() *services.LeaseService {
	wire()
	return leaseService
}

func getPaymentService() *services.PaymentService {
	wire()
	return paymentService
}

func getOwnershipCache() *services.Cache {
	wire()
	return ownershipCache
}

// currentActor reads the identity the auth middleware resolved.
func currentActor(c *gin.Context) services.Actor {
	userID, _ := c.Get("userID")
	role, _ := c.Get("role")

	actor := services.Actor{}
	if id, ok := userID.(int); ok {
		actor.ID = id
	}
	if r, ok := role.(string); ok {
		actor.Role = r
	}
	return actor
}

// respondServiceError maps the service error taxonomy onto HTTP codes.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var authErr *services.AuthorizationError
	var transitionErr *services.InvalidTransitionError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"error": authErr.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   transitionErr.Error(),
			"allowed": transitionErr.Allowed,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
