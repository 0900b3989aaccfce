package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cieges/room-agenda-api/internal/middleware"
	"github.com/cieges/room-agenda-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
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

func actorFromContext(c *gin.Context) models.UserInfo {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.UserInfo{}
	}
	return models.UserInfo{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}
}
