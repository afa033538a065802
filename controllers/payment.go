package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GenerateRentPayments derives the monthly rent ledger for a lease.
func GenerateRentPayments(c *gin.Context) {
	leaseID, err := strconv.Atoi(c.Param("lease_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lease ID"})
		return
	}

	created, err := getPaymentService().GenerateRentSchedule(leaseID, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"created":  len(created),
		"payments": created,
	})
}

// GetLeasePayments lists a lease's payments with overdue derived.
func GetLeasePayments(c *gin.Context) {
	leaseID, err := strconv.Atoi(c.Param("lease_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lease ID"})
		return
	}

	payments, err := getPaymentService().ListPayments(leaseID, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "total": len(payments)})
}

// MarkPaymentPaid records the tenant-side payment.
func MarkPaymentPaid(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("payment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	payment, err := getPaymentService().MarkPaid(paymentID, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

// VerifyPayment is landlord/admin confirmation of a paid payment.
func VerifyPayment(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("payment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	payment, err := getPaymentService().VerifyPayment(paymentID, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}
