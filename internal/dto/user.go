package dto

// CreateUserRequest registers a new account.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Name      string `json:"name" validate:"required"`
	Matricula string `json:"matricula" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// UpdateUserRequest modifies profile fields. Nil pointers leave the stored
// value untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Matricula *string `json:"matricula"`
	Role      *string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
	Active    *bool   `json:"active"`
}
