package handler

import (
	"github.com/gin-gonic/gin"

	"talentlink/middleware"
	midsec "talentlink/middleware/security"
	"talentlink/module/network/service"
	errs "talentlink/tools/errs"
)

type Handler struct {
	Network *service.Network
}

func (h *Handler) Register(r gin.IRoutes, auth *midsec.Options) {
	middleware.POST(r, "/network/request", h.Request, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/network/respond", h.Respond, auth, middleware.RouteOpt{IsAuth: true})
	middleware.GET(r, "/network/connections", h.List, auth, middleware.RouteOpt{IsAuth: true})
}

type requestReq struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
}

func (h *Handler) Request(c *gin.Context) error {
	var req requestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.SenderID); err != nil {
		return err
	}
	requestID, err := h.Network.RequestConnection(c.Request.Context(), req.SenderID, req.ReceiverID)
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"request_id": requestID})
	return nil
}

type respondReq struct {
	ActorID   string `json:"actor_id"`
	RequestID string `json:"request_id"`
	Accept    bool   `json:"accept"`
}

func (h *Handler) Respond(c *gin.Context) error {
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.ActorID); err != nil {
		return err
	}
	if err := h.Network.RespondConnection(c.Request.Context(), req.ActorID, req.RequestID, req.Accept); err != nil {
		return err
	}
	c.JSON(200, gin.H{})
	return nil
}

func (h *Handler) List(c *gin.Context) error {
	viewerID := midsec.AuthedUser(c)
	filter := c.DefaultQuery("filter", service.FilterAll)
	views, err := h.Network.ListConnections(c.Request.Context(), viewerID, filter)
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"connections": views})
	return nil
}
