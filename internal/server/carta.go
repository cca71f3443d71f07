package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	cartadomain "github.com/sobremesalab/sobremesa/internal/carta/domain"
)

type CreateCartaRequest struct {
	SobremesaID string `json:"sobremesa_id"`
	Text        string `json:"text"`
}

type DecideCartaRequest struct {
	Status string `json:"status"`
}

func (s *Server) CreateCarta(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if s.submitLimiter.Enabled() {
		allowed, err := s.submitLimiter.AllowUser(c.Request.Context(), userID.String())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "/cartas", "user_rate")
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), "/cartas")
	}

	var req CreateCartaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sobremesaID, err := snowflake.ParseString(req.SobremesaID)
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	resp, err := s.cartaSvc.Submit(c.Request.Context(), userID, cartadomain.SubmitRequest{
		SobremesaID: sobremesaID,
		Text:        req.Text,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListCartas(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	sobremesaID, err := snowflake.ParseString(c.Param("sobremesa_id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	items, err := s.cartaSvc.ListForSobremesa(c.Request.Context(), sobremesaID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cartas": items})
}

func (s *Server) DecideCarta(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	cartaID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req DecideCartaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.seleccionSvc.Decide(c.Request.Context(), cartaID, userID, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CheckCarta(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	sobremesaID, err := snowflake.ParseString(c.Param("sobremesa_id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	resp, err := s.cartaSvc.CheckExisting(c.Request.Context(), sobremesaID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
