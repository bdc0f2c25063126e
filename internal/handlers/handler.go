package handlers

import (
	"github.com/gin-gonic/gin"

	"taskman/internal/auth"
	"taskman/internal/mail"
	"taskman/internal/middleware"
	"taskman/internal/store"
)

// Handler carries the injected dependencies every endpoint works against.
// There is no ambient state: tests and main construct their own.
type Handler struct {
	users  *store.UserStore
	tasks  *store.TaskStore
	tokens *auth.TokenManager
	mail   *mail.Dispatcher
}

func New(users *store.UserStore, tasks *store.TaskStore, tokens *auth.TokenManager, dispatcher *mail.Dispatcher) *Handler {
	return &Handler{
		users:  users,
		tasks:  tasks,
		tokens: tokens,
		mail:   dispatcher,
	}
}

// RegisterRoutes wires every endpoint onto the router. The route shapes
// (including /users/me vs /user/me) are the API's published surface and
// must not be "tidied up".
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	authRequired := middleware.Auth(h.users, h.tokens)

	router.GET("/health", HealthCheck)
	router.GET("/api/status", Status)

	router.POST("/users", h.Signup)
	router.POST("/users/login", h.Login)
	router.POST("/users/logout", authRequired, h.Logout)
	router.POST("/users/logoutAll", authRequired, h.LogoutAll)
	router.GET("/users/me", authRequired, h.GetProfile)
	router.PATCH("/user/me", authRequired, h.UpdateProfile)
	router.DELETE("/user/me", authRequired, h.DeleteProfile)

	router.GET("/users/:id/avatar", h.GetAvatar)
	router.POST("/users/me/avatar", authRequired, h.UploadAvatar)
	router.DELETE("/users/me/avatar", authRequired, h.DeleteAvatar)

	router.POST("/tasks", authRequired, h.CreateTask)
	router.GET("/tasks", authRequired, h.ListTasks)
	router.GET("/tasks/:id", authRequired, h.GetTask)
	router.PATCH("/task/:id", authRequired, h.UpdateTask)
	router.DELETE("/task/:id", authRequired, h.DeleteTask)
}
