package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petmart/petmart/internal/auth"
	"github.com/petmart/petmart/internal/store"
)

type productSearchParams struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	MinDate  string `json:"minDate"`
	MaxDate  string `json:"maxDate"`
	MinPrice string `json:"minPrice"`
	MaxPrice string `json:"maxPrice"`
	PageNo   int    `json:"pageNo"`
}

type createProductParams struct {
	Name         string  `json:"name" binding:"required"`
	Slug         string  `json:"slug" binding:"required"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
	Rating       float64 `json:"rating"`
	NumReviews   int     `json:"numReviews"`
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.products.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) catalogSearch(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	result, err := s.products.CatalogSearch(c.Request.Context(), store.CatalogQuery{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Price:    c.Query("price"),
		Rating:   c.Query("rating"),
		Order:    c.Query("order"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":      result.Records,
		"countProducts": result.Total,
		"page":          result.Page,
		"pages":         result.Pages,
	})
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.products.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) productBySlug(c *gin.Context) {
	product, err := s.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product Not Found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) productByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product Not Found"})
		return
	}
	product, err := s.products.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product Not Found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) searchProductList(c *gin.Context) {
	var req struct {
		Params productSearchParams `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := s.products.AdminSearch(c.Request.Context(), store.AdminProductQuery{
		ID:       req.Params.ID,
		Name:     req.Params.Name,
		Brand:    req.Params.Brand,
		Category: req.Params.Category,
		MinDate:  req.Params.MinDate,
		MaxDate:  req.Params.MaxDate,
		MinPrice: req.Params.MinPrice,
		MaxPrice: req.Params.MaxPrice,
		Page:     req.Params.PageNo,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": result.Records,
		"page":     result.Page,
		"pages":    result.Pages,
	})
}

func (s *Server) createProduct(c *gin.Context) {
	claims := auth.CurrentUser(c)
	if claims == nil || !claims.IsAdmin {
		c.JSON(http.StatusAccepted, gin.H{"message": "Invalid Request"})
		return
	}

	var req struct {
		Params createProductParams `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	product, err := s.products.Create(c.Request.Context(), store.ProductInput{
		Name:         req.Params.Name,
		Slug:         req.Params.Slug,
		Brand:        req.Params.Brand,
		Category:     req.Params.Category,
		Description:  req.Params.Description,
		Image:        req.Params.Image,
		Price:        req.Params.Price,
		CountInStock: req.Params.CountInStock,
		Rating:       req.Params.Rating,
		NumReviews:   req.Params.NumReviews,
	})
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusMovedPermanently, gin.H{"message": "Name Or Slug is Used"})
		return
	}
	var invalid *store.ValidationError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusSeeOther, gin.H{"message": invalid.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product, "message": "Product successfully created"})
}
