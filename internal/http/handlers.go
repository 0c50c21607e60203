package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medirural/internal/domain"
	"medirural/internal/service"
	"medirural/internal/websocket"
)

// Order handlers
type orderItemReq struct {
	Medicine string  `json:"medicine"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

type subscriptionReq struct {
	Duration domain.Duration `json:"duration"`
}

type createOrderReq struct {
	Items               []orderItemReq        `json:"items"`
	TotalAmount         *float64              `json:"totalAmount"`
	Shipping            domain.Shipping       `json:"shipping"`
	PaymentDetails      domain.PaymentDetails `json:"paymentDetails"`
	IsSubscription      bool                  `json:"isSubscription"`
	SubscriptionDetails *subscriptionReq      `json:"subscriptionDetails"`
}

func (r createOrderReq) toInput() service.CreateOrderInput {
	in := service.CreateOrderInput{
		Items:         make([]service.OrderLineInput, 0, len(r.Items)),
		Shipping:      r.Shipping,
		PaymentMethod: r.PaymentDetails.Method,
		TotalAmount:   r.TotalAmount,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, service.OrderLineInput{MedicineID: it.Medicine, Quantity: it.Quantity, UnitPrice: it.Price})
	}
	if r.IsSubscription {
		var d domain.Duration
		if r.SubscriptionDetails != nil {
			d = r.SubscriptionDetails.Duration
		}
		in.Subscription = &d
	}
	return in
}

// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body createOrderReq true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.orders.CreateOrder(c.Request.Context(), actorFrom(c), req.toInput())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary List orders visible to the caller
// @Description Customers see their own orders, admins all orders, suppliers orders for their pincode.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Order status"
// @Param subscription query bool false "Only subscription (true) or one-off (false) orders"
// @Success 200 {array} service.OrderView
// @Failure 400 {object} map[string]any
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	q := service.OrderQuery{Status: domain.OrderStatus(c.Query("status"))}
	if v := c.Query("subscription"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription filter"})
			return
		}
		q.IsSubscription = &b
	}
	list, err := s.orders.ListOrders(c.Request.Context(), actorFrom(c), q)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Order statistics for the caller's view
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.OrderStats
// @Router /orders/stats [get]
func (s *Server) orderStats(c *gin.Context) {
	stats, err := s.orders.Stats(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} service.OrderView
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.GetOrder(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateStatusReq struct {
	Status domain.OrderStatus `json:"status"`
}

// @Summary Change order status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /orders/{id} [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	o, err := s.orders.SetStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Live order feed
// @Description WebSocket; admins receive every order event, suppliers only events for their pincode.
// @Tags orders
// @Security BearerAuth
// @Param token query string false "Token when no cookie or header can be sent"
// @Router /ws/orders [get]
func (s *Server) orderFeed(c *gin.Context) {
	actor := actorFrom(c)
	sub := websocket.Subscriber{Actor: actor}
	if actor.Role == domain.RoleSupplier {
		u, err := s.accounts.Profile(c.Request.Context(), actor)
		if err != nil {
			s.respondError(c, err)
			return
		}
		sub.Pincode = u.Address.Pincode
	}
	s.hub.HandleWebSocket(c.Writer, c.Request, sub)
}
