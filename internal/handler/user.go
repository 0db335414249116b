package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/users-service/internal/model"
	"github.com/deppfellow/users-service/internal/server"
	"github.com/deppfellow/users-service/internal/service"
)

// UserHandler serves the /users resource.
type UserHandler struct {
	Handler
	userService *service.UserService
}

func NewUserHandler(s *server.Server, userService *service.UserService) *UserHandler {
	return &UserHandler{
		Handler:     NewHandler(s),
		userService: userService,
	}
}

func (h *UserHandler) CreateUser(c echo.Context, req *model.CreateUserRequest) (model.UserResponse, error) {
	user, err := h.userService.CreateUser(c.Request().Context(), req.Fields())
	if err != nil {
		return model.UserResponse{}, err
	}

	return model.UserResponse{Message: model.MsgUserCreated, Data: *user}, nil
}

func (h *UserHandler) ListUsers(c echo.Context, req *model.ListUsersRequest) (model.ListUsersResponse, error) {
	page, err := h.userService.ListUsers(c.Request().Context(), req)
	if err != nil {
		return model.ListUsersResponse{}, err
	}

	return model.NewListUsersResponse(page), nil
}

func (h *UserHandler) UpdateUser(c echo.Context, req *model.UpdateUserRequest) (model.UserResponse, error) {
	user, err := h.userService.UpdateUser(c.Request().Context(), req.ID, req.Fields())
	if err != nil {
		return model.UserResponse{}, err
	}

	return model.UserResponse{Message: model.MsgUserUpdated, Data: *user}, nil
}

func (h *UserHandler) DeleteUser(c echo.Context, req *model.DeleteUserRequest) error {
	return h.userService.DeleteUser(c.Request().Context(), req.ID)
}
