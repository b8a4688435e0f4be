package membership

import (
	"context"

	"fightclub/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create plan
// @Description  Adds a membership plan to the catalog.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        request  body  PlanRequest  true  "Request body"
// @Success      201  {object}  api.Response{data=Plan}
// @Failure      400  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /plans [post]
func (h *Handler) Create(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	plan, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.Created(c, plan)
}

// Update godoc
// @Summary      Update plan
// @Description  Replaces the plan's editable fields.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id       path  integer      true  "Plan ID"
// @Param        request  body  PlanRequest  true  "Request body"
// @Success      200  {object}  api.Response{data=Plan}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /plans/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	plan, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, plan)
}

// Get godoc
// @Summary      Get plan
// @Description  Returns one plan.
// @Tags         plans
// @Produce      json
// @Param        id  path  integer  true  "Plan ID"
// @Success      200  {object}  api.Response{data=Plan}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /plans/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	h.byID(c, h.service.Get)
}

// List godoc
// @Summary      List plans
// @Description  Returns the plan catalog.
// @Tags         plans
// @Produce      json
// @Param        active_only  query  boolean  false  "Only active plans"
// @Success      200  {object}  api.Response{data=[]Plan}
// @Failure      500  {object}  api.Response
// @Router       /plans [get]
func (h *Handler) List(c *gin.Context) {
	plans, err := h.service.List(c.Request.Context(), api.BoolQuery(c, "active_only", false))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, plans)
}

// Deactivate godoc
// @Summary      Deactivate plan
// @Description  Withdraws the plan from sale.
// @Tags         plans
// @Produce      json
// @Param        id  path  integer  true  "Plan ID"
// @Success      200  {object}  api.Response{data=Plan}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /plans/{id}/deactivate [post]
func (h *Handler) Deactivate(c *gin.Context) {
	h.byID(c, h.service.Deactivate)
}

// Activate godoc
// @Summary      Activate plan
// @Description  Puts the plan back on sale.
// @Tags         plans
// @Produce      json
// @Param        id  path  integer  true  "Plan ID"
// @Success      200  {object}  api.Response{data=Plan}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /plans/{id}/activate [post]
func (h *Handler) Activate(c *gin.Context) {
	h.byID(c, h.service.Activate)
}

func (h *Handler) byID(c *gin.Context, fn func(ctx context.Context, id int64) (*Plan, error)) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	plan, err := fn(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, plan)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/plans", h.Create)
	rg.GET("/plans", h.List)
	rg.GET("/plans/:id", h.Get)
	rg.PUT("/plans/:id", h.Update)
	rg.POST("/plans/:id/deactivate", h.Deactivate)
	rg.POST("/plans/:id/activate", h.Activate)
}
