package model

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their wire name (page_size, not PageSize).
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "param", "json"} {
			name := strings.Split(fld.Tag.Get(tag), ",")[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CreateUserRequest is the POST /users body. No field is required.
type CreateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// Fields returns the editable columns carried by the request.
func (r *CreateUserRequest) Fields() UserFields {
	return UserFields{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

// UpdateUserRequest is the PUT /users/:id payload. The id comes from the
// path only; a body "id" is ignored. Any integer id is accepted, an id
// with no row answers not found.
type UpdateUserRequest struct {
	ID          int64   `param:"id" json:"-"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

func (r *UpdateUserRequest) Validate() error {
	return validate.Struct(r)
}

func (r *UpdateUserRequest) Fields() UserFields {
	return UserFields{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

// DeleteUserRequest is the DELETE /users/:id payload.
type DeleteUserRequest struct {
	ID int64 `param:"id"`
}

func (r *DeleteUserRequest) Validate() error {
	return validate.Struct(r)
}

// ListUsersRequest carries the pagination query of GET /users.
type ListUsersRequest struct {
	Page     int `query:"page" validate:"min=1"`
	PageSize int `query:"page_size" validate:"min=1,max=100"`
}

// NewListUsersRequest returns a request preset with the default page, so
// absent query parameters keep their defaults after binding.
func NewListUsersRequest() *ListUsersRequest {
	return &ListUsersRequest{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

func (r *ListUsersRequest) Validate() error {
	return validate.Struct(r)
}

// Offset is the number of rows skipped before this page. ok is false when
// the offset does not fit in an int64; no stored row can be on such a page.
func (r *ListUsersRequest) Offset() (offset int64, ok bool) {
	if r.Page < 1 || r.PageSize < 1 {
		return 0, false
	}

	skipped, size := int64(r.Page-1), int64(r.PageSize)
	if skipped > math.MaxInt64/size {
		return 0, false
	}
	return skipped * size, true
}

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}
