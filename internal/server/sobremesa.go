package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	sobremesadomain "github.com/sobremesalab/sobremesa/internal/sobremesa/domain"
	"github.com/sobremesalab/sobremesa/pkg/db/pagination"
)

type CreateSobremesaRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DateTime        time.Time `json:"date_time"`
	MaxParticipants int       `json:"max_participants"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateMeetingLinkRequest struct {
	MeetingLink string `json:"meeting_link"`
}

func (s *Server) Cartelera(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sobremesaSvc.Cartelera(c.Request.Context(), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateSobremesa(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateSobremesaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sobremesaSvc.Propose(c.Request.Context(), userID, sobremesadomain.ProposeRequest{
		Title:           req.Title,
		Description:     req.Description,
		DateTime:        req.DateTime,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) GetSobremesa(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	resp, err := s.sobremesaSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) MisSobremesas(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	items, err := s.participaciones.ListMine(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sobremesas": items})
}

func (s *Server) UpdateSobremesaStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sobremesaSvc.SetStatus(c.Request.Context(), id, userID, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateMeetingLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req UpdateMeetingLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.sobremesaSvc.SetMeetingLink(c.Request.Context(), id, userID, req.MeetingLink)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) SobremesaCounts(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	resp, err := s.seleccionSvc.Counts(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
