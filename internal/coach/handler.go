package coach

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
// @Summary      Create coach
// @Description  Registers a new active coach.
// @Tags         coaches
// @Accept       json
// @Produce      json
// @Param        request  body  CreateCoachRequest  true  "Request body"
// @Success      201  {object}  api.Response{data=Coach}
// @Failure      400  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /coaches [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	coach, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.Created(c, coach)
}

// List godoc
// @Summary      List coaches
// @Description  Returns coaches ordered by name.
// @Tags         coaches
// @Produce      json
// @Param        active_only  query  boolean  false  "Only active coaches"
// @Success      200  {object}  api.Response{data=[]Coach}
// @Failure      500  {object}  api.Response
// @Router       /coaches [get]
func (h *Handler) List(c *gin.Context) {
	coaches, err := h.service.List(c.Request.Context(), api.BoolQuery(c, "active_only", false))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, coaches)
}

// Deactivate godoc
// @Summary      Deactivate coach
// @Description  Marks the coach inactive. Existing class assignments are kept.
// @Tags         coaches
// @Produce      json
// @Param        id  path  integer  true  "Coach ID"
// @Success      200  {object}  api.Response{data=Coach}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /coaches/{id}/deactivate [post]
func (h *Handler) Deactivate(c *gin.Context) {
	h.setActive(c, h.service.Deactivate)
}

// Reactivate godoc
// @Summary      Reactivate coach
// @Description  Marks the coach active again.
// @Tags         coaches
// @Produce      json
// @Param        id  path  integer  true  "Coach ID"
// @Success      200  {object}  api.Response{data=Coach}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /coaches/{id}/reactivate [post]
func (h *Handler) Reactivate(c *gin.Context) {
	h.setActive(c, h.service.Reactivate)
}

func (h *Handler) setActive(c *gin.Context, fn func(ctx context.Context, id int64) (*Coach, error)) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	coach, err := fn(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, coach)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/coaches", h.Create)
	rg.GET("/coaches", h.List)
	rg.POST("/coaches/:id/deactivate", h.Deactivate)
	rg.POST("/coaches/:id/reactivate", h.Reactivate)
}
