package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskman/internal/avatar"
	"taskman/internal/middleware"
	"taskman/internal/store"
)

// GetAvatar serves a user's avatar. Public: no auth. A malformed id, a
// missing user and a user without an avatar are all the same 404.
func (h *Handler) GetAvatar(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Avatar not found!"})
		return
	}

	data, err := h.users.GetAvatar(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Avatar not found!"})
			return
		}
		log.Printf("Error fetching avatar for user_id=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching avatar"})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

// UploadAvatar accepts a multipart "avatar" file, enforces the extension
// and 1MB limits, normalizes it to a 250x250 PNG and stores the bytes.
func (h *Handler) UploadAvatar(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `A file in field "avatar" is required!`})
		return
	}
	defer file.Close()

	if err := avatar.ValidateFilename(header.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if header.Size > avatar.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": avatar.ErrTooLarge.Error()})
		return
	}

	// The extra byte catches uploads whose header lied about the size.
	data, err := io.ReadAll(io.LimitReader(file, avatar.MaxUploadBytes+1))
	if err != nil {
		log.Printf("Error reading avatar upload for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading upload"})
		return
	}

	processed, err := avatar.Process(data)
	if err != nil {
		if errors.Is(err, avatar.ErrTooLarge) || errors.Is(err, avatar.ErrNotAnImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error processing avatar for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing avatar"})
		return
	}

	if err := h.users.SetAvatar(c.Request.Context(), user.ID, processed); err != nil {
		log.Printf("Error storing avatar for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error storing avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avatar uploaded successfully"})
}

// DeleteAvatar clears the stored avatar.
func (h *Handler) DeleteAvatar(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	if err := h.users.ClearAvatar(c.Request.Context(), user.ID); err != nil {
		log.Printf("Error clearing avatar for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avatar deleted successfully"})
}
