package routes

import (
	"github.com/14kear/online_voting/polls-service/internal/handlers"
	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(rg *gin.RouterGroup, handler *handlers.PollsHandler) {
	{
		rg.POST("/polls", handler.CreatePoll)
		rg.POST("/polls/join", handler.JoinPoll)
		rg.POST("/polls/rejoin", handler.RejoinPoll)
	}
}

func RegisterPrivateRoutes(rg *gin.RouterGroup, handler *handlers.PollsHandler, gateway *handlers.Gateway) {
	{
		rg.GET("/polls/:id", handler.GetPoll)
		rg.GET("/polls/:id/ws", gateway.Connect)
	}
}
