package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/users-service/internal/handler"
	"github.com/deppfellow/users-service/internal/model"
)

// registerUserRoutes mounts the users resource under /users.
func registerUserRoutes(r *echo.Echo, h *handler.Handlers) {
	users := r.Group("/users")

	users.POST("", handler.Handle(
		h.User.Handler,
		h.User.CreateUser,
		http.StatusCreated,
		handler.NewRequest[model.CreateUserRequest],
	))

	users.GET("", handler.Handle(
		h.User.Handler,
		h.User.ListUsers,
		http.StatusOK,
		model.NewListUsersRequest,
	))

	users.PUT("/:id", handler.Handle(
		h.User.Handler,
		h.User.UpdateUser,
		http.StatusOK,
		handler.NewRequest[model.UpdateUserRequest],
	))

	users.DELETE("/:id", handler.HandleNoContent(
		h.User.Handler,
		h.User.DeleteUser,
		http.StatusNoContent,
		handler.NewRequest[model.DeleteUserRequest],
	))
}
