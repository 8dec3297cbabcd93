package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/order-service/internal/model"
	"github.com/psds-microservice/order-service/internal/service"
)

// ChatHandler — HTTP-зеркало чата для polling-клиентов. Авторизация идёт через
// тот же OrderServicer.AuthorizeChat, что и в realtime-гейтвее; никакой своей
// логики доступа здесь нет.
type ChatHandler struct {
	orders service.OrderServicer
	chats  service.ChatServicer
}

func NewChatHandler(orders service.OrderServicer, chats service.ChatServicer) *ChatHandler {
	return &ChatHandler{orders: orders, chats: chats}
}

type createChatRequest struct {
	OrderID uint64 `json:"order_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) Create(c *gin.Context) {
	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ident := identityFrom(c)
	if _, err := h.orders.AuthorizeChat(c.Request.Context(), req.OrderID, ident); err != nil {
		writeServiceError(c, err)
		return
	}
	chat, err := h.chats.Create(c.Request.Context(), req.OrderID, ident.UserID, req.Message, ident.Role == model.RoleCustomer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat"})
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (h *ChatHandler) List(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		return
	}
	ident := identityFrom(c)
	if _, err := h.orders.AuthorizeChat(c.Request.Context(), orderID, ident); err != nil {
		writeServiceError(c, err)
		return
	}
	items, err := h.chats.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chats"})
		return
	}
	c.JSON(http.StatusOK, items)
}
