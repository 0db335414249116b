package model

const (
	MsgUserCreated   = "User created successfully"
	MsgUsersFetched  = "Users fetched successfully"
	MsgUserUpdated   = "User updated successfully"
	MsgUserNotFound  = "User not found"
	MsgCreateFailed  = "An error occurred while creating the user"
	MsgFetchFailed   = "An error occurred while fetching users"
	MsgUpdateFailed  = "An error occurred while updating the user"
	MsgDeleteFailed  = "An error occurred while deleting the user"
	MsgDatabaseReady = "Successfully connected to the database"
)

// UserResponse wraps a single user.
type UserResponse struct {
	Message string `json:"message"`
	Data    User   `json:"data"`
}

// ListUsersResponse is the paginated listing envelope. Data is never null.
type ListUsersResponse struct {
	Message    string `json:"message"`
	Data       []User `json:"data"`
	TotalPages int64  `json:"total_pages"`
	TotalCount int64  `json:"total_count"`
}

// NewListUsersResponse builds the listing envelope from a page.
func NewListUsersResponse(page *UserPage) ListUsersResponse {
	users := page.Users
	if users == nil {
		users = []User{}
	}
	return ListUsersResponse{
		Message:    MsgUsersFetched,
		Data:       users,
		TotalPages: page.TotalPages,
		TotalCount: page.TotalCount,
	}
}

// DatabaseStatusResponse is the body of a successful connectivity probe.
type DatabaseStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
