package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/deppfellow/users-service/internal/database"
	"github.com/deppfellow/users-service/internal/errs"
	"github.com/deppfellow/users-service/internal/lib/photo"
	"github.com/deppfellow/users-service/internal/lib/utils"
	"github.com/deppfellow/users-service/internal/middleware"
	"github.com/deppfellow/users-service/internal/model"
	"github.com/deppfellow/users-service/internal/repository"
	"github.com/deppfellow/users-service/internal/server"
	"github.com/deppfellow/users-service/internal/sqlerr"
)

// UserService implements the users CRUD operations. Every call acquires
// its own connection and releases it before returning.
type UserService struct {
	db     database.Acquirer
	repos  *repository.Repositories
	photos photo.Fetcher
	logger *zerolog.Logger
}

func NewUserService(s *server.Server, repos *repository.Repositories, photos photo.Fetcher) *UserService {
	return &UserService{
		db:     s.DB,
		repos:  repos,
		photos: photos,
		logger: s.Logger,
	}
}

// CreateUser stores a new user with a freshly fetched profile photo. The
// photo is fetched before a connection is taken so a slow upstream does
// not hold one.
func (s *UserService) CreateUser(ctx context.Context, fields model.UserFields) (*model.User, error) {
	picture := s.photos.Fetch(ctx)

	var user *model.User
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		var err error
		user, err = s.repos.Users(conn).Create(ctx, fields, picture)
		return err
	})
	if err != nil {
		return nil, classify(err, model.MsgCreateFailed)
	}

	middleware.LoggerFromContext(ctx, s.logger).Info().
		Int64("user_id", user.ID).
		Str("email", utils.Deref(user.Email)).
		Bool("has_photo", user.ProfilePhoto != nil).
		Msg("user created")

	return user, nil
}

// ListUsers returns one page of users together with the totals. A page
// whose offset overflows is past the last row and comes back empty.
func (s *UserService) ListUsers(ctx context.Context, req *model.ListUsersRequest) (*model.UserPage, error) {
	result := &model.UserPage{Users: []model.User{}}
	offset, inRange := req.Offset()

	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		repo := s.repos.Users(conn)

		if inRange {
			users, err := repo.GetAll(ctx, req.PageSize, offset)
			if err != nil {
				return err
			}
			result.Users = users
		}

		total, err := repo.GetTotalCount(ctx)
		if err != nil {
			return err
		}

		result.TotalCount = total
		return nil
	})
	if err != nil {
		return nil, classify(err, model.MsgFetchFailed)
	}

	result.TotalPages = model.TotalPages(result.TotalCount, req.PageSize)
	return result, nil
}

// UpdateUser replaces the editable fields of user id.
func (s *UserService) UpdateUser(ctx context.Context, id int64, fields model.UserFields) (*model.User, error) {
	var user *model.User
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		var err error
		user, err = s.repos.Users(conn).Update(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, classify(err, model.MsgUpdateFailed)
	}
	return user, nil
}

// DeleteUser hard-deletes user id.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		return s.repos.Users(conn).Delete(ctx, id)
	})
	if err != nil {
		return classify(err, model.MsgDeleteFailed)
	}
	return nil
}

// classify maps repository and driver failures onto client errors.
// Anything that is not a recognised client error becomes a 500 carrying
// opMessage and the raw failure as detail.
func classify(err error, opMessage string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return errs.NewNotFoundError(model.MsgUserNotFound, true, nil).WithCause(err)
	}

	var httpErr *errs.HTTPError
	if errors.As(sqlerr.HandleError(err), &httpErr) && httpErr.Status != http.StatusInternalServerError {
		return httpErr
	}

	return errs.NewInternalServerError().WithMessage(opMessage).WithCause(err)
}
