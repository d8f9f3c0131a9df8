package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"jetset/src/db"
	"jetset/src/lib"
	"jetset/src/lib/mailer"
	"jetset/src/models"
	"jetset/src/types"
	"jetset/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/register/start", func(ctx *gin.Context) {
			var body types.RegisterStartRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d := db.GetDb()
			user := models.User{Email: body.Email, Name: body.Name}
			err := d.Transaction(func(tx *gorm.DB) error {
				var existing models.User
				err := tx.
					Model(&models.User{}).
					Where(&models.User{Email: body.Email}).
					First(&existing).
					Error
				if err == nil {
					if existing.PasswordHash != nil {
						return errors.New("account already exists")
					}
					user = existing
					return nil
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				return tx.Create(&user).Error
			})
			if err != nil {
				log.Printf("[RegisterStart] error: %s\n", err.Error())
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			token, err := utils.NewRegistrationToken(ctx.Request.Context(), user.Email)
			if err != nil {
				log.Printf("[RegisterStart] token error: %s\n", err.Error())
				ctx.Status(http.StatusServiceUnavailable)
				return
			}
			go sendRegistrationEmail(user.Email, token)
			if !utils.IsProd() {
				ctx.JSON(http.StatusOK, gin.H{"token": token})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/register/set-password", func(ctx *gin.Context) {
			var body types.SetPasswordRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			email, err := utils.ConsumeRegistrationToken(ctx.Request.Context(), body.Token)
			if err != nil {
				log.Printf("[SetPassword] error: %s\n", err.Error())
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			hash, err := utils.HashPassword(body.Password)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			d := db.GetDb()
			if err := d.
				Model(&models.User{}).
				Where(&models.User{Email: email}).
				Updates(&models.User{PasswordHash: &hash}).
				Error; err != nil {
				log.Printf("[SetPassword] error updating user: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/login", func(ctx *gin.Context) {
			var body types.LoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var user models.User
			d := db.GetDb()
			if err := d.
				Model(&models.User{}).
				Where(&models.User{Email: body.Email}).
				First(&user).
				Error; err != nil {
				ctx.Status(http.StatusUnauthorized)
				return
			}
			if user.PasswordHash == nil || !utils.CheckPassword(*user.PasswordHash, body.Password) {
				ctx.Status(http.StatusUnauthorized)
				return
			}
			token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"token": token})
		})
	return guest
}

func sendRegistrationEmail(email, token string) {
	appHost := os.Getenv("APP_HOST")
	link := fmt.Sprintf("%s/register/password?token=%s", appHost, token)
	input := &lib.SendMailInput{
		To:      email,
		Subject: "Finish setting up your JetSet Direct account",
		Body:    fmt.Sprintf("Welcome to JetSet Direct.\n\nSet your password here to finish creating your account: %s\n\nThe link expires in 48 hours.", link),
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("Error sending registration email to %s: %s\n", email, err.Error())
	}
}
