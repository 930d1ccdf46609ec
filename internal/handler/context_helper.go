package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/foundarly/learnflow-junction/internal/middleware"
	"github.com/foundarly/learnflow-junction/internal/models"
)

func currentClaims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
