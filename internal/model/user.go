package model

// User is a row of the users table.
//
// Every column except id is nullable. ProfilePhoto is raw image bytes; the
// JSON encoder writes it as base64, or null when there is no photo.
type User struct {
	ID           int64   `json:"id"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	PhoneNumber  *string `json:"phone_number"`
	ProfilePhoto []byte  `json:"profile_photo"`
}

// UserFields are the editable columns. Create and update both take the
// full set; a nil field is stored as NULL.
type UserFields struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
}

// UserPage is one page of the listing plus the totals needed to navigate it.
type UserPage struct {
	Users      []User
	TotalCount int64
	TotalPages int64
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return (total + size - 1) / size
}
