package entitlement

import (
	"time"

	"fightclub/internal/api"
	"fightclub/internal/clock"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	clock   clock.Clock
}

func NewHandler(service Service, clk clock.Clock) *Handler {
	return &Handler{service: service, clock: clk}
}

// Status reports the membership traffic light for one athlete.
//
// @Summary      Athlete membership status
// @Description  Resolves GREEN, YELLOW or RED and this week's usage. Read only.
// @Tags         entitlement
// @Produce      json
// @Param        id  path   integer  true   "Athlete ID"
// @Param        at  query  string   false  "RFC3339 instant, defaults to now"
// @Success      200  {object}  api.Response{data=Status}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /athletes/{id}/status [get]
func (h *Handler) Status(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	at := h.clock.Now()
	if raw := c.Query("at"); raw != "" {
		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			api.BadRequest(c, "invalid at: expected RFC3339 timestamp")
			return
		}
	}

	status, err := h.service.ResolveForAthlete(c.Request.Context(), id, at)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, status)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/athletes/:id/status", h.Status)
}
