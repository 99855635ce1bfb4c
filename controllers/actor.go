package controllers

import (
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// currentActor builds the policy actor from what AuthMiddleware stored.
func currentActor(c *gin.Context) services.Actor {
	return services.Actor{
		ID:    utils.CurrentUserID(c),
		Email: utils.CurrentEmail(c),
		Role:  utils.CurrentRole(c),
	}
}
