package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"taskman/internal/middleware"
	"taskman/internal/models"
	"taskman/internal/store"
)

const (
	invalidIDMessage        = "Invalid id format!"
	taskNotFoundMessage     = "Task not found!"
	taskUpdateFieldsMessage = "Only fields: (description, completed) are accepted!"
)

type createTaskRequest struct {
	Description string `json:"description"`
	Completed   *bool  `json:"completed"`
}

// CreateTask creates a task owned by the authenticated user. The owner
// comes from the auth context, never from the body.
func (h *Handler) CreateTask(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required!"})
		return
	}

	task := &models.Task{
		OwnerID:     user.ID,
		Description: description,
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		log.Printf("Error creating task for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks returns the caller's tasks.
// Filter: /tasks?completed=true
// Sort:   /tasks?sortBy=createdAt:desc
// Pages:  /tasks?limit=5&skip=10
func (h *Handler) ListTasks(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	query, err := parseTaskListQuery(c.Query("completed"), c.Query("sortBy"), c.Query("limit"), c.Query("skip"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.tasks.ListByOwner(c.Request.Context(), user.ID, query)
	if err != nil {
		log.Printf("Error listing tasks for user_id=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTask returns one task by id, owner-scoped. A task that exists but
// belongs to somebody else is the same 404 as one that never existed.
func (h *Handler) GetTask(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidIDMessage})
		return
	}

	task, err := h.tasks.GetByIDAndOwner(c.Request.Context(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": taskNotFoundMessage})
			return
		}
		log.Printf("Error fetching task id=%d for user_id=%d: %v", taskID, user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask applies a whitelisted partial update to an owner-scoped task.
func (h *Handler) UpdateTask(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidIDMessage})
		return
	}

	var req models.TaskUpdate
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": taskUpdateFieldsMessage})
		return
	}

	task, err := h.tasks.GetByIDAndOwner(c.Request.Context(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": taskNotFoundMessage})
			return
		}
		log.Printf("Error fetching task id=%d for user_id=%d: %v", taskID, user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving task"})
		return
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required!"})
			return
		}
		task.Description = description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.tasks.Update(c.Request.Context(), task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": taskNotFoundMessage})
			return
		}
		log.Printf("Error updating task id=%d for user_id=%d: %v", taskID, user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes an owner-scoped task.
func (h *Handler) DeleteTask(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate!"})
		return
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidIDMessage})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), taskID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": taskNotFoundMessage})
			return
		}
		log.Printf("Error deleting task id=%d for user_id=%d: %v", taskID, user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
