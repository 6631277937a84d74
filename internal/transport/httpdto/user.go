package httpdto

import "lms-api/internal/services"

// RegisterRequest is used for POST /users/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) ToInput() services.RegisterInput {
	return services.RegisterInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest is used for POST /users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) ToInput() services.LoginInput {
	return services.LoginInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// UserIDResponse is returned by register and login.
type UserIDResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

const (
	MsgRegistered = "User registered successfully!"
	MsgLoggedIn   = "Login successful!"
)
