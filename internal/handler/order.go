package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/order-service/internal/kafka"
	"github.com/psds-microservice/order-service/internal/model"
	"github.com/psds-microservice/order-service/internal/service"
)

type OrderHandler struct {
	svc      service.OrderServicer
	producer kafka.OrderEventProducer
}

func NewOrderHandler(svc service.OrderServicer, producer kafka.OrderEventProducer) *OrderHandler {
	return &OrderHandler{svc: svc, producer: producer}
}

type createOrderRequest struct {
	Name           string     `json:"name" binding:"required"`
	Description    string     `json:"description"`
	Specifications string     `json:"specifications"`
	Quantity       int        `json:"quantity" binding:"required,min=1"`
	DueDate        *time.Time `json:"due_date"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	ident := identityFrom(c)
	if ident.Role != model.RoleCustomer {
		c.JSON(http.StatusForbidden, gin.H{"error": "only customers can create an order"})
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	order := &model.Order{
		UserID:         ident.UserID,
		Name:           req.Name,
		Description:    req.Description,
		Specifications: req.Specifications,
		Quantity:       req.Quantity,
		DueDate:        req.DueDate,
	}
	if err := h.svc.Create(c.Request.Context(), order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}
	log.Printf("order: created order %d for user %d", order.ID, ident.UserID)
	h.producer.ProduceAsync(kafka.EventOrderCreated, order)
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	ident := identityFrom(c)
	var (
		items []model.Order
		err   error
	)
	if ident.Role == model.RoleCustomer {
		items, err = h.svc.ListByOwner(c.Request.Context(), ident.UserID)
	} else {
		items, err = h.svc.ListAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": items, "total": len(items)})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	ident := identityFrom(c)
	o, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !model.IsOwner(o, ident.UserID) && ident.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateOrderRequest struct {
	Name           *string    `json:"name,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Specifications *string    `json:"specifications,omitempty"`
	Quantity       *int       `json:"quantity,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	changes := make(map[string]interface{})
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Specifications != nil {
		changes["specifications"] = *req.Specifications
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		changes["quantity"] = *req.Quantity
	}
	if req.DueDate != nil {
		changes["due_date"] = *req.DueDate
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no changes"})
		return
	}
	ident := identityFrom(c)
	o, err := h.svc.Update(c.Request.Context(), id, ident, changes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	log.Printf("order: updated order %d for user %d", id, ident.UserID)
	h.producer.ProduceAsync(kafka.EventOrderUpdated, o)
	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	ident := identityFrom(c)
	o, err := h.svc.Cancel(c.Request.Context(), id, ident)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	log.Printf("order: cancelled order %d for user %d", id, ident.UserID)
	h.producer.ProduceAsync(kafka.EventOrderCancelled, o)
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}

type processOrderRequest struct {
	ClosingSummary string `json:"closing_summary" binding:"required"`
}

func (h *OrderHandler) Process(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var req processOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ident := identityFrom(c)
	o, err := h.svc.Process(c.Request.Context(), id, ident, req.ClosingSummary)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	log.Printf("order: order %d moved to PROCESSING by admin %d", id, ident.UserID)
	h.producer.ProduceAsync(kafka.EventOrderProcessing, o)
	c.JSON(http.StatusOK, gin.H{"message": "order processing"})
}

func (h *OrderHandler) Complete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	ident := identityFrom(c)
	o, err := h.svc.Complete(c.Request.Context(), id, ident)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	log.Printf("order: order %d completed by admin %d", id, ident.UserID)
	h.producer.ProduceAsync(kafka.EventOrderCompleted, o)
	c.JSON(http.StatusOK, gin.H{"message": "order completed"})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	ident := identityFrom(c)
	if err := h.svc.Delete(c.Request.Context(), id, ident); err != nil {
		writeServiceError(c, err)
		return
	}
	log.Printf("order: deleted order %d for user %d", id, ident.UserID)
	h.producer.ProduceAsync(kafka.EventOrderDeleted, &model.Order{ID: id, UserID: ident.UserID})
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

func parseID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, err
	}
	return id, nil
}
