package main

import (
	"log"
	"net/http"
	"strconv"

	"pgme/src/common"
	"pgme/src/types"
	"pgme/src/utils"

	"github.com/gin-gonic/gin"
)

func paypalHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	paypal := g.Group("/paypal")
	paypal.
		POST("/create", func(ctx *gin.Context) {
			var body types.CreatePayPalPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			amount, err := strconv.ParseFloat(body.Amount, 64)
			if err != nil || amount <= 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
				return
			}
			intent, err := common.CreatePayPalPayment(
				ctx.Request.Context(),
				body.BookingID,
				amount,
				body.Currency,
				body.Description,
				body.ReturnURL,
				body.CancelURL,
			)
			if err != nil {
				log.Printf("Error creating paypal payment: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"payment_id":   intent.PaymentID,
				"approval_url": intent.ApprovalURL,
			})
		}).
		POST("/execute", func(ctx *gin.Context) {
			var body struct {
				PaymentID string `json:"payment_id" binding:"required"`
				PayerID   string `json:"payer_id" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			payment, err := common.CompletePayPalPayment(ctx.Request.Context(), body.PaymentID, body.PayerID)
			if err != nil {
				log.Printf("Error executing paypal payment: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payment})
		})
	return g
}

// paypalCallbackHandlers are mounted without auth: the payer lands here
// from the PayPal approval page, outside any session we control.
func paypalCallbackHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	paypal := g.Group("/paypal")
	paypal.
		GET("/callback/success", func(ctx *gin.Context) {
			var query struct {
				PaymentID string `form:"paymentId" binding:"required"`
				PayerID   string `form:"PayerID" binding:"required"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			payment, err := common.CompletePayPalPayment(ctx.Request.Context(), query.PaymentID, query.PayerID)
			if err != nil {
				log.Printf("Error completing paypal payment: %s\n", err.Error())
				utils.WriteError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payment})
		}).
		GET("/callback/cancel", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "cancelled"})
		})
	return g
}
