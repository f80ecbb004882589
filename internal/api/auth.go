package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/listboard/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.provider == nil {
		s.abortWithError(c, auth.ErrUnsupported)
		return
	}

	res, err := s.provider.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.provider == nil {
		s.abortWithError(c, auth.ErrUnsupported)
		return
	}

	res, err := s.provider.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) me(c *gin.Context) {
	claims := c.MustGet(ctxClaims).(auth.Claims)
	c.JSON(http.StatusOK, gin.H{"user": claims.User()})
}
