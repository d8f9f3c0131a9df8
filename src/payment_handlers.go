package main

import (
	"errors"
	"log"
	"net/http"

	"jetset/src/common"
	"jetset/src/types"
	"jetset/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings/:id/payment", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.InitiatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			kind := types.PAYMENT_IMMEDIATE
			if body.Strategy == "deferred" {
				kind = types.PAYMENT_DEFERRED
			}
			userId := ctx.GetUint("id")
			result, err := utils.InitiatePayment(ctx.Request.Context(), uuid.MustParse(params.ID), userId, kind, body.ContactEmail)
			if err != nil {
				log.Printf("[InitiatePayment] error: %s\n", err.Error())
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, common.ErrInvalidAmount), errors.Is(err, common.ErrMissingContact):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.Is(err, common.ErrNotPayable):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				case errors.Is(err, common.ErrUpstreamUnavailable):
					ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusOK, result)
		})
	return g
}
