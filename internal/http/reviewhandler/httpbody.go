package reviewhandler

type CreateReviewBody struct {
	UserID  string `json:"user_id" binding:"required"`
	Rating  int    `json:"rating"  binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
} // @name CreateReviewRequest

type MessageResponse struct {
	Message string `json:"message"`
} // @name ReviewMessageResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ReviewErrorResponse
