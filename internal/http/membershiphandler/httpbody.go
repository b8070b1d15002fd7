package membershiphandler

type PurchaseBody struct {
	UserID       string `json:"user_id"       binding:"required"`
	MembershipID string `json:"membership_id" binding:"required"`
} // @name PurchaseRequest

type MessageResponse struct {
	Message string `json:"message"`
} // @name MembershipMessageResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name MembershipErrorResponse
