package authhandler

type LoginBody struct {
	Email    string `json:"email"    binding:"required,email" example:"jane@dispensary.com"`
	Password string `json:"password" binding:"required"       example:"hunter2"`
} // @name LoginRequest

type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
} // @name LoginResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name AuthErrorResponse
