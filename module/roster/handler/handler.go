package handler

import (
	"github.com/gin-gonic/gin"

	"talentlink/middleware"
	midsec "talentlink/middleware/security"
	"talentlink/module/roster/service"
	errs "talentlink/tools/errs"
)

type Handler struct {
	Registry *service.Registry
}

func (h *Handler) Register(r gin.IRoutes, auth *midsec.Options) {
	middleware.POST(r, "/roster/group/create", h.CreateGroup, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/roster/group/update", h.UpdateGroup, auth, middleware.RouteOpt{IsAuth: true})
	middleware.POST(r, "/roster/group/delete", h.DeleteGroup, auth, middleware.RouteOpt{IsAuth: true})
	middleware.GET(r, "/roster/granted", h.Granted, auth, middleware.RouteOpt{IsAuth: true})
}

type groupReq struct {
	ActorID     string   `json:"actor_id"`
	GroupID     string   `json:"group_id"`
	Name        string   `json:"name"`
	MemberIDs   []string `json:"member_ids"`
	Mode        string   `json:"mode"`
	RefGroupIDs []string `json:"ref_group_ids"`
	IsHotList   bool     `json:"is_hot_list"`
	IsJob       bool     `json:"is_job"`
	IsCandidate bool     `json:"is_candidate"`
}

func (req *groupReq) input() service.GroupInput {
	return service.GroupInput{
		Name:        req.Name,
		MemberIDs:   req.MemberIDs,
		Mode:        req.Mode,
		RefGroupIDs: req.RefGroupIDs,
		IsHotList:   req.IsHotList,
		IsJob:       req.IsJob,
		IsCandidate: req.IsCandidate,
	}
}

func (h *Handler) CreateGroup(c *gin.Context) error {
	var req groupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.ActorID); err != nil {
		return err
	}
	groupID, err := h.Registry.CreateGroup(c.Request.Context(), req.ActorID, req.input())
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"group_id": groupID})
	return nil
}

func (h *Handler) UpdateGroup(c *gin.Context) error {
	var req groupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.ActorID); err != nil {
		return err
	}
	if err := h.Registry.UpdateGroup(c.Request.Context(), req.ActorID, req.GroupID, req.input()); err != nil {
		return err
	}
	c.JSON(200, gin.H{})
	return nil
}

func (h *Handler) DeleteGroup(c *gin.Context) error {
	var req groupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return errs.ErrArgs.WrapMsg(err.Error())
	}
	if err := midsec.RequireActor(c, req.ActorID); err != nil {
		return err
	}
	if err := h.Registry.DeleteGroup(c.Request.Context(), req.ActorID, req.GroupID); err != nil {
		return err
	}
	c.JSON(200, gin.H{})
	return nil
}

// Granted 返回 viewer 经 HotList 获得可见性的成员ID集合。
func (h *Handler) Granted(c *gin.Context) error {
	viewerID := midsec.AuthedUser(c)
	members, err := h.Registry.GrantedMembers(c.Request.Context(), viewerID)
	if err != nil {
		return err
	}
	c.JSON(200, gin.H{"member_ids": members})
	return nil
}
