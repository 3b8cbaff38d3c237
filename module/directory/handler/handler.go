package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"talentlink/middleware"
	midsec "talentlink/middleware/security"
	"talentlink/module/directory/model"
	"talentlink/module/directory/service"
	"talentlink/module/directory/store"
	rosterservice "talentlink/module/roster/service"
	errs "talentlink/tools/errs"
)

// Handler 暴露目录查询：按曝光策略过滤的候选人/职位列表。
// 候选人列表还要并上 HotList 授权的成员（授权绕过曝光策略，但二次过滤照常生效）。
type Handler struct {
	Accounts store.AccountStore
	Jobs     store.JobStore
	Registry *rosterservice.Registry
}

func (h *Handler) Register(r gin.IRoutes, auth *midsec.Options) {
	middleware.GET(r, "/directory/candidates", h.ListCandidates, auth, middleware.RouteOpt{IsAuth: true})
	middleware.GET(r, "/directory/jobs", h.ListJobs, auth, middleware.RouteOpt{IsAuth: true})
}

type candidateView struct {
	AccountID      string `json:"account_id"`
	Name           string `json:"name"`
	Membership     string `json:"membership"`
	IsFresher      bool   `json:"is_fresher"`
	SeeksInternship bool  `json:"seeks_internship"`
}

// ListCandidates 基础可见 ∪ HotList 授权，再按查询参数叠二次过滤。
func (h *Handler) ListCandidates(c *gin.Context) error {
	ctx := c.Request.Context()
	viewerID := midsec.AuthedUser(c)
	account, err := h.Accounts.Get(ctx, viewerID)
	if err != nil {
		return err
	}
	viewer := service.ViewerOf(account)

	var refinements []service.Refinement
	if c.Query("fresher") == "true" {
		refinements = append(refinements, service.FresherOnly())
	}
	if c.Query("internship") == "true" {
		refinements = append(refinements, service.InternshipOnly())
	}
	if c.Query("min_active_job") == "true" {
		refinements = append(refinements, service.MinOneActiveJob())
	}

	candidates, err := h.Accounts.ListCandidates(ctx)
	if err != nil {
		return err
	}
	visible := service.FilterVisibleCandidates(viewer, candidates, refinements...)

	granted, err := h.Registry.GrantedMembers(ctx, viewerID)
	if err != nil {
		return err
	}
	if len(granted) > 0 {
		seen := lo.SliceToMap(visible, func(a *model.Account) (string, struct{}) {
			return a.AccountID, struct{}{}
		})
		grantedSet := lo.SliceToMap(granted, func(id string) (string, struct{}) {
			return id, struct{}{}
		})
		for _, a := range candidates {
			if _, ok := seen[a.AccountID]; ok {
				continue
			}
			if _, ok := grantedSet[a.AccountID]; !ok {
				continue
			}
			if refinementsPass(a, refinements) {
				visible = append(visible, a)
			}
		}
	}

	out := lo.Map(visible, func(a *model.Account, _ int) candidateView {
		return candidateView{
			AccountID:       a.AccountID,
			Name:            a.Name,
			Membership:      a.Membership,
			IsFresher:       a.IsFresher,
			SeeksInternship: a.SeeksInternship,
		}
	})
	c.JSON(200, gin.H{"candidates": out})
	return nil
}

func refinementsPass(a *model.Account, refinements []service.Refinement) bool {
	for _, keep := range refinements {
		if !keep(a) {
			return false
		}
	}
	return true
}

type jobView struct {
	JobID   string `json:"job_id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
}

// ListJobs 职位授权已物化进 exposedTo，基础可见性一步到位。
func (h *Handler) ListJobs(c *gin.Context) error {
	ctx := c.Request.Context()
	viewerID := midsec.AuthedUser(c)
	account, err := h.Accounts.Get(ctx, viewerID)
	if err != nil {
		return errs.WrapMsg(err, "load viewer")
	}
	jobs, err := h.Jobs.ListActive(ctx)
	if err != nil {
		return err
	}
	visible := service.FilterVisibleJobs(service.ViewerOf(account), jobs)
	out := lo.Map(visible, func(j *model.Job, _ int) jobView {
		return jobView{JobID: j.JobID, OwnerID: j.OwnerID, Title: j.Title}
	})
	c.JSON(200, gin.H{"jobs": out})
	return nil
}
