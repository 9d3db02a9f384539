package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"freshmart/internal/coupons"
	"freshmart/internal/models"
)

func (s *Server) listCoupons(c *gin.Context) {
	list, err := s.store.ListCoupons(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) validateCoupon(c *gin.Context) {
	subtotal, err := strconv.ParseFloat(c.Query("subtotal"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A numeric subtotal query parameter is required"})
		return
	}

	coupon, err := s.evaluator.Evaluate(
		c.Request.Context(), c.Param("code"), decimal.NewFromFloat(subtotal), time.Now())
	if err != nil {
		var belowMin *coupons.BelowMinimumError
		switch {
		case errors.Is(err, coupons.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, coupons.ErrInactive),
			errors.Is(err, coupons.ErrExpired),
			errors.As(err, &belowMin):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while validating coupon"})
		}
		return
	}

	c.JSON(http.StatusOK, coupon)
}

func (s *Server) listCouponsAdmin(c *gin.Context) {
	list, err := s.store.ListCoupons(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while fetching coupons"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": list})
}

type couponAdminRequest struct {
	Code        string   `json:"code"`
	Type        string   `json:"type"`
	Value       *float64 `json:"value"`
	Description string   `json:"description"`
	MinOrder    *float64 `json:"minOrder"`
	MaxDiscount *float64 `json:"maxDiscount"`
	ExpiresAt   *string  `json:"expiresAt"`
	IsActive    *bool    `json:"isActive"`
}

func (s *Server) createCoupon(c *gin.Context) {
	var req couponAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon payload"})
		return
	}
	if req.Code == "" || req.Type == "" || req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code, type, and value are required fields"})
		return
	}
	if req.Type != models.CouponTypePercentage && req.Type != models.CouponTypeFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon type must be PERCENTAGE or FIXED"})
		return
	}

	code := coupons.Canonicalize(req.Code)
	if existing, err := s.store.CouponByCode(c.Request.Context(), code); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "This coupon already exists"})
		return
	} else if err != nil && !errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while creating coupon"})
		return
	}

	coupon := &models.Coupon{
		ID:          uuid.NewString(),
		Code:        code,
		Type:        req.Type,
		Value:       decimal.NewFromFloat(*req.Value).Round(2),
		Description: req.Description,
		MinOrder:    decimal.Zero,
		IsActive:    req.IsActive != nil && *req.IsActive,
	}
	if req.MinOrder != nil {
		coupon.MinOrder = decimal.NewFromFloat(*req.MinOrder).Round(2)
	}
	if req.MaxDiscount != nil {
		d := decimal.NewFromFloat(*req.MaxDiscount).Round(2)
		coupon.MaxDiscount = &d
	}
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiresAt must be an RFC 3339 timestamp"})
			return
		}
		coupon.ExpiresAt = &t
	}

	if err := s.store.CreateCoupon(c.Request.Context(), coupon); err != nil {
		if isDuplicateEntry(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "This coupon already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while creating coupon"})
		return
	}

	s.logAdminAction(c, models.ActionCreatedCoupon, "COUPON", coupon.ID, gin.H{
		"code":  coupon.Code,
		"type":  coupon.Type,
		"value": coupon.Value,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"coupon":  coupon,
	})
}

func (s *Server) updateCoupon(c *gin.Context) {
	var req couponAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon payload"})
		return
	}

	coupon, err := s.store.CouponByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while updating coupon"})
		return
	}

	if req.Code != "" {
		code := coupons.Canonicalize(req.Code)
		if code != coupon.Code {
			exists, err := s.store.CouponCodeExists(c.Request.Context(), code, coupon.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while updating coupon"})
				return
			}
			if exists {
				c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
				return
			}
			coupon.Code = code
		}
	}
	if req.Type != "" {
		if req.Type != models.CouponTypePercentage && req.Type != models.CouponTypeFixed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon type must be PERCENTAGE or FIXED"})
			return
		}
		coupon.Type = req.Type
	}
	if req.Value != nil {
		coupon.Value = decimal.NewFromFloat(*req.Value).Round(2)
	}
	if req.Description != "" {
		coupon.Description = req.Description
	}
	if req.MinOrder != nil {
		coupon.MinOrder = decimal.NewFromFloat(*req.MinOrder).Round(2)
	}
	if req.MaxDiscount != nil {
		d := decimal.NewFromFloat(*req.MaxDiscount).Round(2)
		coupon.MaxDiscount = &d
	}
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiresAt must be an RFC 3339 timestamp"})
			return
		}
		coupon.ExpiresAt = &t
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := s.store.UpdateCoupon(c.Request.Context(), coupon); err != nil {
		if isDuplicateEntry(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error while updating coupon"})
		return
	}

	s.logAdminAction(c, models.ActionUpdatedCoupon, "COUPON", coupon.ID, gin.H{
		"code": coupon.Code,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated successfully",
		"coupon":  coupon,
	})
}
