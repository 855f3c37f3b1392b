package dto

// CreateActivationTokenRequestBody defines a request body for CreateActivationToken service.
type CreateActivationTokenRequestBody struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateAuthenticationTokenRequestBody defines a request body for CreateAuthenticationToken service.
type CreateAuthenticationTokenRequestBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
