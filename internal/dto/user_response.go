package dto

type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginUserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginResponse struct {
	Message string            `json:"message"`
	User    LoginUserResponse `json:"user"`
}
