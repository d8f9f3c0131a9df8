package main

import (
	"errors"
	"log"
	"net/http"

	"jetset/src/common"
	"jetset/src/db"
	"jetset/src/models"
	"jetset/src/types"
	"jetset/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			bookingId, err := utils.CreateNewBooking(&body, userId)
			if err != nil {
				log.Printf("[CreateBooking] error: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"bookingId": bookingId})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var bookings []models.Booking
			db := db.GetDb()
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{UserID: userId}).
				Order("scheduled_at asc").
				Find(&bookings).
				Error; err != nil {
				log.Printf("[ListBookings] error: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			bookingId := uuid.MustParse(params.ID)
			userId := ctx.GetUint("id")
			var booking models.Booking
			db := db.GetDb()
			if err := db.
				Model(&models.Booking{}).
				Where("id = ? AND user_id = ?", bookingId, userId).
				First(&booking).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.CancelBooking(uuid.MustParse(params.ID), userId); err != nil {
				log.Printf("[CancelBooking] error: %s\n", err.Error())
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, common.ErrIllegalTransition), errors.Is(err, common.ErrConcurrentUpdate):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PUT("/bookings/:id/complete", func(ctx *gin.Context) {
			role := ctx.GetString("role")
			if role != "admin" {
				ctx.Status(http.StatusForbidden)
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := utils.MarkCompleted(uuid.MustParse(params.ID)); err != nil {
				log.Printf("[CompleteBooking] error: %s\n", err.Error())
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, common.ErrIllegalTransition), errors.Is(err, common.ErrConcurrentUpdate):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
