package dto

// RegisterUserRequestBody defines a request body for RegisterUser service.
type RegisterUserRequestBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ActivateUserRequestBody defines a request body for ActivateUser service.
type ActivateUserRequestBody struct {
	TokenPlaintext string `json:"token"`
}

// UpdateUserRequestBody defines a request body for UpdateUser service.
type UpdateUserRequestBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}
