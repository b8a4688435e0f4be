package subscription

import (
	"errors"
	"io"

	"fightclub/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterPayment records a payment and opens the subscription it pays for.
//
// @Summary      Register payment
// @Description  Records a payment and opens the subscription period it pays for. Without start_date the period chains after the athlete's running one.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body  RegisterPaymentRequest  true  "Request body"
// @Success      201  {object}  api.Response{data=RegisterPaymentResult}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      409  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /payments [post]
func (h *Handler) RegisterPayment(c *gin.Context) {
	var req RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterPayment(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.Created(c, result)
}

// GetPayment godoc
// @Summary      Get payment
// @Description  Returns one payment.
// @Tags         payments
// @Produce      json
// @Param        id  path  integer  true  "Payment ID"
// @Success      200  {object}  api.Response{data=Payment}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /payments/{id} [get]
func (h *Handler) GetPayment(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, payment)
}

// VoidPayment cancels a payment. The body is optional.
//
// @Summary      Void payment
// @Description  Marks the payment VOID and cancels its subscription.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path  integer             true  "Payment ID"
// @Param        request  body  VoidPaymentRequest  true  "Request body"
// @Success      200  {object}  api.Response{data=Payment}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      409  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /payments/{id}/void [post]
func (h *Handler) VoidPayment(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	var req VoidPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		api.BadRequest(c, err.Error())
		return
	}

	payment, err := h.service.VoidPayment(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, payment)
}

// ConsumeClassBono godoc
// @Summary      Consume bono class
// @Description  Uses one class of a class-count subscription. The last class expires it.
// @Tags         subscriptions
// @Produce      json
// @Param        id  path  integer  true  "Subscription ID"
// @Success      200  {object}  api.Response{data=Subscription}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      409  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /subscriptions/{id}/consume [post]
func (h *Handler) ConsumeClassBono(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	sub, err := h.service.ConsumeClassBono(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, sub)
}

// ListSubscriptions godoc
// @Summary      List athlete subscriptions
// @Description  Returns the athlete's subscriptions, newest first.
// @Tags         subscriptions
// @Produce      json
// @Param        id  path  integer  true  "Athlete ID"
// @Success      200  {object}  api.Response{data=[]Subscription}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /athletes/{id}/subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	subs, err := h.service.ListSubscriptions(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, subs)
}

// ListPayments godoc
// @Summary      List athlete payments
// @Description  Returns the athlete's payments, newest first, voided ones included.
// @Tags         payments
// @Produce      json
// @Param        id  path  integer  true  "Athlete ID"
// @Success      200  {object}  api.Response{data=[]Payment}
// @Failure      400  {object}  api.Response
// @Failure      404  {object}  api.Response
// @Failure      500  {object}  api.Response
// @Router       /athletes/{id}/payments [get]
func (h *Handler) ListPayments(c *gin.Context) {
	id, err := api.IDParam(c, "id")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, payments)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", h.RegisterPayment)
	rg.GET("/payments/:id", h.GetPayment)
	rg.POST("/payments/:id/void", h.VoidPayment)
	rg.POST("/subscriptions/:id/consume", h.ConsumeClassBono)
	rg.GET("/athletes/:id/subscriptions", h.ListSubscriptions)
	rg.GET("/athletes/:id/payments", h.ListPayments)
}
