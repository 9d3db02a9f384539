package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"freshmart/internal/checkout"
	"freshmart/internal/models"
	"freshmart/internal/store"
)

type customerInfoRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type cartItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type couponRequest struct {
	Code        string  `json:"code"`
	Discount    float64 `json:"discount"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

type placeOrderRequest struct {
	UserID       *int64               `json:"userId"`
	CustomerInfo *customerInfoRequest `json:"customerInfo"`
	CartItems    []cartItemRequest    `json:"cartItems"`
	Coupon       *couponRequest       `json:"coupon"`
	Subtotal     float64              `json:"subtotal"`
	Discount     float64              `json:"discount"`
	Total        float64              `json:"total"`
	Notes        string               `json:"notes"`
}

func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}

	input := checkout.PlaceOrderInput{
		UserID:   req.UserID,
		Subtotal: decimal.NewFromFloat(req.Subtotal),
		Discount: decimal.NewFromFloat(req.Discount),
		Total:    decimal.NewFromFloat(req.Total),
		Notes:    req.Notes,
	}
	if req.CustomerInfo != nil {
		input.Customer = checkout.CustomerInfo{
			Name:    req.CustomerInfo.Name,
			Email:   req.CustomerInfo.Email,
			Phone:   req.CustomerInfo.Phone,
			Address: req.CustomerInfo.Address,
		}
	}
	for _, item := range req.CartItems {
		input.Items = append(input.Items, checkout.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     decimal.NewFromFloat(item.Price),
		})
	}
	if req.Coupon != nil {
		input.CouponCode = req.Coupon.Code
	}

	order, err := s.checkout.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		var validationErr *checkout.ValidationError
		var notFoundErr *checkout.NotFoundError
		var capacityErr *checkout.CapacityError
		// Product and stock problems surface as 400s on this endpoint:
		// they describe a bad cart, not a bad URL.
		switch {
		case errors.As(err, &validationErr),
			errors.As(err, &notFoundErr),
			errors.As(err, &capacityErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   order,
		"message": "Order created successfully!",
	})
}

func (s *Server) listOrders(c *gin.Context) {
	filter := store.OrderFilter{
		Admin: c.Query("isAdmin") == "true",
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	}
	if v, err := strconv.ParseInt(c.Query("userId"), 10, 64); err == nil {
		filter.UserID = &v
	}
	filter.CustomerEmail = c.Query("customerEmail")

	if !filter.Admin && filter.UserID == nil && filter.CustomerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Either userId, customerEmail, or admin access is required.",
		})
		return
	}

	orders, total, err := s.store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	pages := (total + filter.Limit - 1) / filter.Limit
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"pagination": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
			"pages": pages,
		},
	})
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.store.OrderWithItems(c.Request.Context(), c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	userID := c.Query("userId")
	customerEmail := c.Query("customerEmail")
	if userID == "" && customerEmail == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required - provide userId or customerEmail"})
		return
	}

	hasAccess := false
	if id, err := strconv.ParseInt(userID, 10, 64); err == nil && order.UserID != nil && *order.UserID == id {
		hasAccess = true
	}
	if customerEmail != "" {
		if order.CustomerEmail == customerEmail {
			hasAccess = true
		}
		if order.User != nil && order.User.Email == customerEmail {
			hasAccess = true
		}
	}

	if !hasAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied - this order does not belong to you"})
		return
	}

	c.JSON(http.StatusOK, order)
}

type cancelOrderRequest struct {
	UserID *int64 `json:"userId"`
}

func (s *Server) cancelOrder(c *gin.Context) {
	var req cancelOrderRequest
	// Body is optional; guest cancellations carry no userId
	_ = c.ShouldBindJSON(&req)

	order, err := s.checkout.CancelOrder(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		var notFoundErr *checkout.NotFoundError
		var authErr *checkout.AuthorizationError
		var conflictErr *checkout.ConflictError
		switch {
		case errors.As(err, &notFoundErr):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &authErr):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.As(err, &conflictErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
		"message": "Order cancelled successfully",
	})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
