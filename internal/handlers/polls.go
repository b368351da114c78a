package handlers

import (
	"net/http"

	"github.com/14kear/online_voting/polls-service/internal/middleware"
	"github.com/14kear/online_voting/polls-service/internal/services/polls"
	"github.com/gin-gonic/gin"
)

type PollsHandler struct {
	polls *polls.Polls
}

type CreatePollRequest struct {
	Topic         string `json:"topic" binding:"required"`
	VotesPerVoter int    `json:"votesPerVoter" binding:"required"`
	Name          string `json:"name" binding:"required"`
}

type JoinPollRequest struct {
	PollID string `json:"pollID" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func NewPollsHandler(pollsService *polls.Polls) *PollsHandler {
	return &PollsHandler{polls: pollsService}
}

func (h *PollsHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "type": KindValidation})
		return
	}

	ticket, err := h.polls.CreatePoll(c.Request.Context(), req.Topic, req.VotesPerVoter, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *PollsHandler) JoinPoll(c *gin.Context) {
	var req JoinPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "type": KindValidation})
		return
	}

	ticket, err := h.polls.JoinPoll(c.Request.Context(), req.PollID, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// RejoinPoll re-seats the bearer of an assertion issued earlier.
func (h *PollsHandler) RejoinPoll(c *gin.Context) {
	token := middleware.Token(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token", "type": KindUnauthorized})
		return
	}

	poll, err := h.polls.RejoinPoll(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, poll)
}

func (h *PollsHandler) GetPoll(c *gin.Context) {
	sess, ok := middleware.Session(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "type": KindUnauthorized})
		return
	}

	poll, err := h.polls.GetPoll(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, poll)
}
