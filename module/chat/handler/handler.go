package handler

import (
	"github.com/gin-gonic/gin"

	"talentlink/middleware"
	midsec "talentlink/middleware/security"
	"talentlink/module/chat/service"
	errs "talentlink/tools/errs"
)

type Handler struct {
	Workflow  *service.Workflow
	Messenger *service.Messenger
}

func (h *Handler) Register(r gin.IRoutes, auth *midsec.Options) {
	middleware.POST(r, "/chat/request/create", h.CreateRequest, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/chat/request/accept", h.AcceptRequest, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/chat/request/reject", h.RejectRequest, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/chat/candidate/release", h.ReleaseCandidate, auth, middleware.RouteOpt{IsAuth: true})
	middleware.GET(r, "/chat/requests", h.ListRequests, auth, middleware.RouteOpt{IsAuth: true})

	middleware.POST(r, "/chat/message/send", h.SendMessage, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/chat/message/read", h.MarkRead, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/chat/block", h.SetBlocked, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/chat/delete", h.DeleteChat, auth, middleware.RouteOpt{IsAuth: true})
	middleware.GET(r, "/chat/conversations", h.ListConversations, auth, middleware.RouteOpt{IsAuth: true})
}

type createRequestReq struct {
	PAID        string `json:"pa_id"`
	CandidateID string `json:"candidate_id"`
	EmployerID  string `json:"employer_id"`
	JobID       string `json:"job_id"`
}

func (h *Handler) CreateRequest(c *gin.Context) error {
	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.PAID); err != nil {
		return err
	}
	requestID, err := h.Workflow.CreateRequest(c.Request.Context(), req.PAID, req.CandidateID, req.EmployerID, req.JobID)
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"request_id": requestID})
	return nil
}

type handleRequestReq struct {
	ActorID   string `json:"actor_id"`
	RequestID string `json:"request_id"`
}

func (h *Handler) AcceptRequest(c *gin.Context) error {
	var req handleRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.ActorID); err != nil {
		return err
	}
	conversationID, err := h.Workflow.Accept(c.Request.Context(), req.ActorID, req.RequestID)
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"conversation_id": conversationID})
	return nil
}

func (h *Handler) RejectRequest(c *gin.Context) error {
	var req handleRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.ActorID); err != nil {
		return err
	}
	if err := h.Workflow.Reject(c.Request.Context(), req.ActorID, req.RequestID); err != nil {
		return err
	}
	c.JSON(200, gin.H{})
	return nil
}

func (h *Handler) ReleaseCandidate(c *gin.Context) error {
	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.PAID); err != nil {
		return err
	}
	conversationID, err := h.Workflow.ReleaseCandidate(c.Request.Context(), req.PAID, req.CandidateID, req.EmployerID, req.JobID)
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"conversation_id": conversationID})
	return nil
}

func (h *Handler) ListRequests(c *gin.Context) error {
	requests, err := h.Workflow.ListRequests(c.Request.Context(), midsec.AuthedUser(c))
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"requests": requests})
	return nil
}

type sendMessageReq struct {
	ConversationID string `json:"conversation_id"`
	FromID         string `json:"from_id"`
	Body           string `json:"body"`
	Type           string `json:"type"`
}

func (h *Handler) SendMessage(c *gin.Context) error {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.FromID); err != nil {
		return err
	}
	messageID, err := h.Messenger.SendMessage(c.Request.Context(), req.ConversationID, req.FromID, req.Body, req.Type)
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"message_id": messageID})
	return nil
}

type convActionReq struct {
	ConversationID string `json:"conversation_id"`
	ActorID        string `json:"actor_id"`
}

func (h *Handler) MarkRead(c *gin.Context) error {
	var req convActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.ActorID); err != nil {
		return err
	}
	if err := h.Messenger.MarkRead(c.Request.Context(), req.ConversationID, req.ActorID); err != nil {
		return err
	}
	c.JSON(200, gin.H{})
	return nil
}

type blockReq struct {
	BlockerID string `json:"blocker_id"`
	BlockedID string `json:"blocked_id"`
	Value     bool   `json:"value"`
}

func (h *Handler) SetBlocked(c *gin.Context) error {
	var req blockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.BlockerID); err != nil {
		return err
	}
	if err := h.Messenger.SetBlocked(c.Request.Context(), req.BlockerID, req.BlockedID, req.Value); err != nil {
		return err
	}
	c.JSON(200, gin.H{})
	return nil
}

func (h *Handler) DeleteChat(c *gin.Context) error {
	var req convActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.ActorID); err != nil {
		return err
	}
	if err := h.Messenger.DeleteChat(c.Request.Context(), req.ConversationID, req.ActorID); err != nil {
		return err
	}
	c.JSON(200, gin.H{})
	return nil
}

func (h *Handler) ListConversations(c *gin.Context) error {
	views, err := h.Messenger.ListConversations(c.Request.Context(), midsec.AuthedUser(c))
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"conversations": views})
	return nil
}
