package main

import (
	"log"
	"net/http"

	"jetset/src/utils"

	"github.com/gin-gonic/gin"
)

func accountHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/account/summary", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			summary, err := utils.GetAccountSummary(userId)
			if err != nil {
				log.Printf("[AccountSummary] error: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, summary)
		})
	return g
}
