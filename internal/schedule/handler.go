package schedule

import (
	"time"

	"fightclub/internal/api"
	"fightclub/internal/apperr"
	"fightclub/internal/clock"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

// CreatePattern godoc
// @Summary      Create pattern
// @Description  Adds a weekly recurrence template.
// @Tags         patterns
// @Accept       json
// @Produce      json
// @Param        request  body  PatternRequest  true  "Request body"
// @Success      201  {object}  api.Response{data=ClassPattern}
// @Failure      400  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /patterns [post]
func (h *Handler) CreatePattern(c *gin.Context) {
	var req PatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.CreatePattern(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.Created(c, p)
}

// ListPatterns godoc
// @Summary      List patterns
// @Description  Returns every pattern.
// @Tags         patterns
// @Produce      json
// @Success      200  {object}  api.Response{data=[]ClassPattern}
// @Failure      500  {object}  api.Response
// @Router       /patterns [get]
func (h *Handler) ListPatterns(c *gin.Context) {
	patterns, err := h.service.ListPatterns(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, patterns)
}

// GetPattern godoc
// @Summary      Get pattern
// @Description  Returns one pattern.
// @Tags         patterns
// @Produce      json
// @Param        id  path  integer  true  "Pattern ID"
// @Success      200  {object}  api.Response{data=ClassPattern}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /patterns/{id} [get]
func (h *Handler) GetPattern(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	p, err := h.service.GetPattern(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, p)
}

// UpdatePattern godoc
// @Summary      Update pattern
// @Description  Replaces the pattern. Classes already expanded are untouched.
// @Tags         patterns
// @Accept       json
// @Produce      json
// @Param        id       path  integer         true  "Pattern ID"
// @Param        request  body  PatternRequest  true  "Request body"
// @Success      200  {object}  api.Response{data=ClassPattern}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /patterns/{id} [put]
func (h *Handler) UpdatePattern(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	var req PatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.UpdatePattern(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, p)
}

// DeletePattern godoc
// @Summary      Delete pattern
// @Description  Deletes the pattern and keeps the classes it produced.
// @Tags         patterns
// @Produce      json
// @Param        id  path  integer  true  "Pattern ID"
// @Success      200  {object}  api.Response{data=api.MessageResponse}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /patterns/{id} [delete]
func (h *Handler) DeletePattern(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	if err := h.service.DeletePattern(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	api.Message(c, "pattern deleted")
}

// ExpandPattern godoc
// @Summary      Expand pattern
// @Description  Creates one class per pattern weekday, skipping slots that already have an active class.
// @Tags         patterns
// @Produce      json
// @Param        id  path  integer  true  "Pattern ID"
// @Success      200  {object}  api.Response{data=ExpandResult}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /patterns/{id}/expand [post]
func (h *Handler) ExpandPattern(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	result, err := h.service.ExpandPattern(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, result)
}

// CreateClass godoc
// @Summary      Create class
// @Description  Adds a single weekly class with its base coaches.
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        request  body  ClassRequest  true  "Request body"
// @Success      201  {object}  api.Response{data=Class}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      409  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	class, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.Created(c, class)
}

// ListClasses godoc
// @Summary      List classes
// @Description  Returns classes ordered by weekday and start time.
// @Tags         classes
// @Produce      json
// @Param        day          query  string   false  "Weekday, e.g. MONDAY"
// @Param        active_only  query  boolean  false  "Only active classes, default true"
// @Success      200  {object}  api.Response{data=[]Class}
// @Failure      400  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	var day *clock.Weekday
	if raw := c.Query("day"); raw != "" {
		wd, err := clock.ParseWeekday(raw)
		if err != nil {
			api.RespondError(c, apperr.Invalid("invalid day: %s", raw))
			return
		}
		day = &wd
	}

	classes, err := h.service.ListClasses(c.Request.Context(), day, api.BoolQuery(c, "active_only", true))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, classes)
}

// GetClass godoc
// @Summary      Get class
// @Description  Returns one class with its base coaches.
// @Tags         classes
// @Produce      json
// @Param        id  path  integer  true  "Class ID"
// @Success      200  {object}  api.Response{data=Class}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes/{id} [get]
func (h *Handler) GetClass(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	class, err := h.service.GetClass(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, class)
}

// SetCoaches godoc
// @Summary      Set base coaches
// @Description  Replaces the class's base coach assignment.
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id       path  integer            true  "Class ID"
// @Param        request  body  SetCoachesRequest  true  "Request body"
// @Success      200  {object}  api.Response{data=Class}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes/{id}/coaches [put]
func (h *Handler) SetCoaches(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	var req SetCoachesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	class, err := h.service.SetCoaches(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, class)
}

// DeactivateClass godoc
// @Summary      Deactivate class
// @Description  Takes the class off the schedule.
// @Tags         classes
// @Produce      json
// @Param        id  path  integer  true  "Class ID"
// @Success      200  {object}  api.Response{data=Class}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes/{id}/deactivate [post]
func (h *Handler) DeactivateClass(c *gin.Context) {
	h.setActive(c, false)
}

// ReactivateClass godoc
// @Summary      Reactivate class
// @Description  Puts the class back on the schedule unless another active class holds its slot.
// @Tags         classes
// @Produce      json
// @Param        id  path  integer  true  "Class ID"
// @Success      200  {object}  api.Response{data=Class}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      409  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes/{id}/reactivate [post]
func (h *Handler) ReactivateClass(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	var class *Class
	if active {
		class, err = h.service.ReactivateClass(c.Request.Context(), id)
	} else {
		class, err = h.service.DeactivateClass(c.Request.Context(), id)
	}
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, class)
}

// Schedule godoc
// @Summary      Resolve schedule
// @Description  Lists every class occurrence in the range with substitutions applied. At most 62 days.
// @Tags         schedule
// @Produce      json
// @Param        from  query  string  true   "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD, defaults to from"
// @Success      200  {object}  api.Response{data=[]Slot}
// @Failure      400  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /schedule [get]
func (h *Handler) Schedule(c *gin.Context) {
	from, ok, err := api.DateQuery(c, "from", h.loc)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	if !ok {
		api.RespondError(c, apperr.Invalid("from is required"))
		return
	}

	to, ok, err := api.DateQuery(c, "to", h.loc)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	if !ok {
		to = from
	}

	slots, err := h.service.ResolveScheduleForRange(c.Request.Context(), from, to)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, slots)
}

// AssignSubstitute godoc
// @Summary      Assign substitute
// @Description  Sets the coach for one occurrence of the class.
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Param        id       path  integer            true  "Class ID"
// @Param        date     path  string             true  "YYYY-MM-DD"
// @Param        request  body  SubstituteRequest  true  "Request body"
// @Success      200  {object}  api.Response{data=Override}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      409  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes/{id}/substitutes/{date} [put]
func (h *Handler) AssignSubstitute(c *gin.Context) {
	id, day, ok := h.classDate(c)
	if !ok {
		return
	}

	var req SubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	o, err := h.service.AssignSubstitute(c.Request.Context(), id, day, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, o)
}

// RemoveSubstitute godoc
// @Summary      Remove substitute
// @Description  Reverts one occurrence to its base coaches. Succeeds when nothing was assigned.
// @Tags         schedule
// @Produce      json
// @Param        id    path  integer  true  "Class ID"
// @Param        date  path  string   true  "YYYY-MM-DD"
// @Success      200  {object}  api.Response{data=api.MessageResponse}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /classes/{id}/substitutes/{date} [delete]
func (h *Handler) RemoveSubstitute(c *gin.Context) {
	id, day, ok := h.classDate(c)
	if !ok {
		return
	}

	if err := h.service.RemoveSubstitute(c.Request.Context(), id, day); err != nil {
		api.RespondError(c, err)
		return
	}
	api.Message(c, "substitute removed")
}

func (h *Handler) classDate(c *gin.Context) (int64, time.Time, bool) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return 0, time.Time{}, false
	}
	day, err := clock.ParseDate(c.Param("date"), h.loc)
	if err != nil {
		api.RespondError(c, apperr.Invalid("invalid date: expected YYYY-MM-DD"))
		return 0, time.Time{}, false
	}
	return id, day, true
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	patterns := rg.Group("/patterns")
	{
		patterns.POST("", h.CreatePattern)
		patterns.GET("", h.ListPatterns)
		patterns.GET("/:id", h.GetPattern)
		patterns.PUT("/:id", h.UpdatePattern)
		patterns.DELETE("/:id", h.DeletePattern)
		patterns.POST("/:id/expand", h.ExpandPattern)
	}

	classes := rg.Group("/classes")
	{
		classes.POST("", h.CreateClass)
		classes.GET("", h.ListClasses)
		classes.GET("/:id", h.GetClass)
		classes.PUT("/:id/coaches", h.SetCoaches)
		classes.POST("/:id/deactivate", h.DeactivateClass)
		classes.POST("/:id/reactivate", h.ReactivateClass)
		classes.PUT("/:id/substitutes/:date", h.AssignSubstitute)
		classes.DELETE("/:id/substitutes/:date", h.RemoveSubstitute)
	}

	rg.GET("/schedule", h.Schedule)
}
