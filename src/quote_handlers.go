package main

import (
	"log"
	"net/http"

	"jetset/src/common"
	"jetset/src/types"

	"github.com/gin-gonic/gin"
)

func quoteRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		POST("/quote", func(ctx *gin.Context) {
			var body types.QuoteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			quote, err := common.Quote(*body.DistanceMiles, *body.DurationMinutes)
			if err != nil {
				log.Printf("[Quote] error: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, quote)
		})
	return apiv1
}
