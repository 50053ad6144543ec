package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petmart/petmart/internal/auth"
	"github.com/petmart/petmart/internal/models"
	"github.com/petmart/petmart/internal/store"
)

type orderItemRequest struct {
	ID       string  `json:"_id" binding:"required"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
}

type createOrderRequest struct {
	OrderItems      []orderItemRequest     `json:"orderItems" binding:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	ItemsPrice      float64                `json:"itemsPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

type payOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type deliveryStatusRequest struct {
	ID             string `json:"id" binding:"required"`
	DeliveryStatus string `json:"deliveryStatus" binding:"required"`
}

type orderSearchParams struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	MinDate        string `json:"minDate"`
	MaxDate        string `json:"maxDate"`
	MinPrice       string `json:"minPrice"`
	MaxPrice       string `json:"maxPrice"`
	PaidStatus     string `json:"paidStatus"`
	DeliveryStatus string `json:"deliveryStatus"`
	PageNo         int    `json:"pageNo"`
}

func (s *Server) createOrder(c *gin.Context) {
	claims := auth.CurrentUser(c)
	userID, err := claims.ObjectID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Token"})
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	items := make([]models.OrderItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		productID, idErr := primitive.ObjectIDFromHex(item.ID)
		if idErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Product Reference"})
			return
		}
		items = append(items, models.OrderItem{
			Slug:     item.Slug,
			Name:     item.Name,
			Quantity: item.Quantity,
			Image:    item.Image,
			Price:    item.Price,
			Product:  productID,
		})
	}

	order, err := s.orders.Create(c.Request.Context(), models.Order{
		OrderItems:      items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TaxPrice:        req.TaxPrice,
		TotalPrice:      req.TotalPrice,
		User:            userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "New Order Created", "newOrder": order})
}

func (s *Server) myOrders(c *gin.Context) {
	claims := auth.CurrentUser(c)
	userID, err := claims.ObjectID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Token"})
		return
	}

	orders, err := s.orders.ForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if claims.IsAdmin {
		expanded, expErr := s.orders.ExpandOwners(c.Request.Context(), orders)
		if expErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": expErr.Error()})
			return
		}
		c.JSON(http.StatusOK, expanded)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) orderByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order Not Found"})
		return
	}
	order, err := s.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order Not Found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) payOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order Not Found"})
		return
	}

	var req payOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	order, err := s.orders.Pay(c.Request.Context(), id, models.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.EmailAddress,
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order Not Found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order Paid", "order": order})
}

func (s *Server) updateDeliveryStatus(c *gin.Context) {
	var req deliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order Not Found"})
		return
	}

	order, err := s.orders.SetDeliveryStatus(c.Request.Context(), id, req.DeliveryStatus)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order Not Found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Delivery Status Updated", "order": order})
}

func (s *Server) searchOrderList(c *gin.Context) {
	var req struct {
		Params orderSearchParams `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	outcome, err := s.orders.Search(c.Request.Context(), store.OrderQuery{
		ID:             req.Params.ID,
		Name:           req.Params.Name,
		MinDate:        req.Params.MinDate,
		MaxDate:        req.Params.MaxDate,
		MinPrice:       req.Params.MinPrice,
		MaxPrice:       req.Params.MaxPrice,
		PaidStatus:     req.Params.PaidStatus,
		DeliveryStatus: req.Params.DeliveryStatus,
		Page:           req.Params.PageNo,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	// The dependent owner lookup matched no user: no query was executed.
	if !outcome.Ran {
		c.JSON(http.StatusOK, gin.H{"orders": nil, "page": 0, "pages": 0})
		return
	}

	result := outcome.Result
	claims := auth.CurrentUser(c)
	if claims != nil && claims.IsAdmin {
		expanded, expErr := s.orders.ExpandOwners(c.Request.Context(), result.Records)
		if expErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": expErr.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": expanded, "page": result.Page, "pages": result.Pages})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": result.Records, "page": result.Page, "pages": result.Pages})
}
