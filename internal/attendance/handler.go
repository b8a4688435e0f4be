package attendance

import (
	"net/http"
	"time"

	"fightclub/internal/api"
	"fightclub/internal/clock"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	clock   clock.Clock
	loc     *time.Location
}

func NewHandler(service Service, clk clock.Clock, loc *time.Location) *Handler {
	return &Handler{service: service, clock: clk, loc: loc}
}

// CheckIn answers 201 for a new attendance and 200 when the athlete was
// already checked in.
//
// @Summary      Check in
// @Description  Records the athlete at a class on a day. A repeat returns the existing row with 200 and consumes nothing.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request  body  CheckInRequest  true  "Request body"
// @Success      201  {object}  api.Response{data=CheckInResult}
// @Success      200  {object}  api.Response{data=CheckInResult}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      409  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /checkins [post]
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CheckIn(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, api.Response{Success: true, Data: result})
}

// Remove godoc
// @Summary      Remove attendance
// @Description  Deletes an attendance. A consumed bono class is not refunded.
// @Tags         attendance
// @Produce      json
// @Param        id  path  integer  true  "Attendance ID"
// @Success      200  {object}  api.Response{data=api.MessageResponse}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /attendance/{id} [delete]
func (h *Handler) Remove(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	api.Message(c, "attendance removed")
}

// Roster godoc
// @Summary      Class roster
// @Description  Lists athletes checked in to the class on a day.
// @Tags         attendance
// @Produce      json
// @Param        id    path   integer  true   "Class ID"
// @Param        date  query  string   false  "YYYY-MM-DD, defaults to today"
// @Success      200  {object}  api.Response{data=[]RosterEntry}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes/{id}/attendance [get]
func (h *Handler) Roster(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	day, ok, err := api.DateQuery(c, "date", h.loc)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	if !ok {
		day = clock.StartOfDay(h.clock.Now().In(h.loc))
	}

	roster, err := h.service.Roster(c.Request.Context(), id, day)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, roster)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkins", h.CheckIn)
	rg.DELETE("/attendance/:id", h.Remove)
	rg.GET("/classes/:id/attendance", h.Roster)
}
