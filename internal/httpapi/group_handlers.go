package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pram0n0/Travelog/internal/middleware"
)

type createGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

type joinGroupRequest struct {
	Code string `json:"code" binding:"required"`
}

func (s *Server) listGroups(c *gin.Context) {
	groups, err := s.Groups.ListGroups(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (s *Server) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	group, err := s.Groups.CreateGroup(c.Request.Context(), middleware.GetUsername(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (s *Server) joinGroup(c *gin.Context) {
	var req joinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	group, err := s.Groups.JoinGroup(c.Request.Context(), middleware.GetUsername(c), req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (s *Server) getGroup(c *gin.Context) {
	group, err := s.Groups.GetGroup(c.Request.Context(), middleware.GetUsername(c), c.Param("groupId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (s *Server) leaveGroup(c *gin.Context) {
	err := s.Groups.LeaveGroup(c.Request.Context(), middleware.GetUsername(c), c.Param("groupId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left the group"})
}

func (s *Server) getBalances(c *gin.Context) {
	balances, err := s.Groups.Balances(c.Request.Context(), middleware.GetUsername(c), c.Param("groupId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}

func (s *Server) getSettlementPlan(c *gin.Context) {
	plan, err := s.Groups.SettlementPlan(
		c.Request.Context(),
		middleware.GetUsername(c),
		c.Param("groupId"),
		c.Query("currency"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
