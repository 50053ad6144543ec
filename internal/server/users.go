package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/petmart/petmart/internal/auth"
	"github.com/petmart/petmart/internal/models"
	"github.com/petmart/petmart/internal/store"
)

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type userSearchParams struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	MinDate       string `json:"minDate"`
	MaxDate       string `json:"maxDate"`
	IsAdminStatus string `json:"isAdminStatus"`
	PageNo        int    `json:"pageNo"`
}

type createUserParams struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// userInfo is the authenticated-user payload returned by signin, signup and
// profile updates.
func (s *Server) userInfo(c *gin.Context, user *models.User) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"_id":     user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"isAdmin": user.IsAdmin,
		"token":   token,
	})
}

func (s *Server) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := s.users.GetByEmail(c.Request.Context(), req.Email)
	if err == nil && bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) == nil {
		s.userInfo(c, user)
		return
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Email or Password"})
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	user, err := s.users.Create(c.Request.Context(), req.Name, req.Email, string(hash), false)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusMovedPermanently, gin.H{"message": "Email Or Name is Used"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	s.userInfo(c, user)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password does not match"})
		return
	}

	claims := auth.CurrentUser(c)
	id, err := claims.ObjectID()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	var user *models.User
	if req.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": hashErr.Error()})
			return
		}
		user, err = s.users.UpdatePassword(c.Request.Context(), id, string(hash))
	} else {
		user, err = s.users.GetByID(c.Request.Context(), id)
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	s.userInfo(c, user)
}

func (s *Server) searchUserList(c *gin.Context) {
	var req struct {
		Params userSearchParams `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := s.users.Search(c.Request.Context(), store.UserQuery{
		ID:          req.Params.ID,
		Name:        req.Params.Name,
		Email:       req.Params.Email,
		MinDate:     req.Params.MinDate,
		MaxDate:     req.Params.MaxDate,
		AdminStatus: req.Params.IsAdminStatus,
		Page:        req.Params.PageNo,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": result.Records,
		"page":  result.Page,
		"pages": result.Pages,
	})
}

func (s *Server) createUser(c *gin.Context) {
	claims := auth.CurrentUser(c)
	if claims == nil || !claims.IsAdmin {
		c.JSON(http.StatusAccepted, gin.H{"message": "Invalid Request"})
		return
	}

	var req struct {
		Params createUserParams `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Params.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	user, err := s.users.Create(c.Request.Context(), req.Params.Name, req.Params.Email, string(hash), req.Params.IsAdmin)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusMovedPermanently, gin.H{"message": "Email Or Name is Used"})
		return
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "message": "User successfully created"})
}
