package athlete

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

// Create registers a new athlete.
//
// @Summary      Create athlete
// @Description  Registers a new active athlete.
// @Tags         athletes
// @Accept       json
// @Produce      json
// @Param        request  body  CreateAthleteRequest  true  "Request body"
// @Success      201  {object}  api.Response{data=Athlete}
// @Failure      400  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /athletes [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.Created(c, a)
}

// List godoc
// @Summary      List athletes
// @Description  Returns athletes ordered by name.
// @Tags         athletes
// @Produce      json
// @Param        active_only  query  boolean  false  "Only active athletes"
// @Success      200  {object}  api.Response{data=[]Athlete}
// @Failure      500  {object}  api.Response
// @Router       /athletes [get]
func (h *Handler) List(c *gin.Context) {
	athletes, err := h.service.List(c.Request.Context(), api.BoolQuery(c, "active_only", false))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, athletes)
}

// Get godoc
// @Summary      Get athlete
// @Description  Returns one athlete.
// @Tags         athletes
// @Produce      json
// @Param        id  path  integer  true  "Athlete ID"
// @Success      200  {object}  api.Response{data=Athlete}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /athletes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, a)
}

// Deactivate godoc
// @Summary      Deactivate athlete
// @Description  Marks the athlete inactive. History is kept.
// @Tags         athletes
// @Produce      json
// @Param        id  path  integer  true  "Athlete ID"
// @Success      200  {object}  api.Response{data=Athlete}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /athletes/{id}/deactivate [post]
func (h *Handler) Deactivate(c *gin.Context) {
	h.setActive(c, h.service.Deactivate)
}

// Reactivate godoc
// @Summary      Reactivate athlete
// @Description  Marks the athlete active again.
// @Tags         athletes
// @Produce      json
// @Param        id  path  integer  true  "Athlete ID"
// @Success      200  {object}  api.Response{data=Athlete}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /athletes/{id}/reactivate [post]
func (h *Handler) Reactivate(c *gin.Context) {
	h.setActive(c, h.service.Reactivate)
}

func (h *Handler) setActive(c *gin.Context, fn func(ctx context.Context, id int64) (*Athlete, error)) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	a, err := fn(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, a)
}

// RegisterRoutes mounts the athlete endpoints on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/athletes", h.Create)
	rg.GET("/athletes", h.List)
	rg.GET("/athletes/:id", h.Get)
	rg.POST("/athletes/:id/deactivate", h.Deactivate)
	rg.POST("/athletes/:id/reactivate", h.Reactivate)
}
