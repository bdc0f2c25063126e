package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskman/internal/auth"
	"taskman/internal/mail"
	"taskman/internal/middleware"
	"taskman/internal/models"
	"taskman/internal/store"
)

const userUpdateFieldsMessage = "Only fields: (name, email, password, age) are accepted!"

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// issueToken mints a session token and appends it to the user's active
// list. Logins never replace earlier tokens, so concurrent sessions keep
// working until they log out.
func (h *Handler) issueToken(ctx context.Context, userID int) (string, error) {
	token, err := h.tokens.Generate(userID)
	if err != nil {
		return "", err
	}
	if err := h.users.AddToken(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// Signup handles user registration
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := models.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	}
	user.Normalize()
	if err := user.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := auth.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}
	user.Password = hashedPassword

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already in use!"})
			return
		}
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	// Best-effort; signup never fails because the email did.
	h.mail.Enqueue(mail.Welcome(user.Email, user.Name))

	token, err := h.issueToken(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Error issuing token for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

// Login authenticates by credentials and issues an additional session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": store.ErrInvalidCredentials.Error()})
		return
	}

	user, err := h.users.GetByCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": store.ErrInvalidCredentials.Error()})
			return
		}
		log.Printf("Error looking up credentials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		return
	}

	token, err := h.issueToken(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Error issuing token for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout revokes exactly the token this request authenticated with.
func (h *Handler) Logout(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}
	token, ok := middleware.TokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	if err := h.users.RemoveToken(c.Request.Context(), user.ID, token); err != nil {
		log.Printf("Error logging out user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// LogoutAll revokes every active session the user has.
func (h *Handler) LogoutAll(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	if err := h.users.ClearTokens(c.Request.Context(), user.ID); err != nil {
		log.Printf("Error logging out all sessions for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out of all sessions"})
}

// GetProfile returns the authenticated user.
func (h *Handler) GetProfile(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a whitelisted partial update to the authenticated
// user. The typed request struct is the whitelist; anything else in the
// body is a 400 before the store is touched.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	var req models.UserUpdate
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": userUpdateFieldsMessage})
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	user.Normalize()
	if err := user.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only re-hash when the password actually changed.
	if req.Password != nil {
		if err := models.ValidatePassword(*req.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hashedPassword, err := auth.HashPassword(strings.TrimSpace(*req.Password))
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
			return
		}
		user.Password = hashedPassword
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already in use!"})
			return
		}
		log.Printf("Error updating user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteProfile removes the account and everything it owns, then fires the
// farewell notification.
func (h *Handler) DeleteProfile(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	if err := h.users.Delete(c.Request.Context(), user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found!"})
			return
		}
		log.Printf("Error deleting user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting profile"})
		return
	}

	h.mail.Enqueue(mail.Farewell(user.Email, user.Name))

	c.JSON(http.StatusOK, user)
}
