package auctionhandler

type PlaceBidBody struct {
	UserID   string  `json:"user_id"   binding:"required"      example:"user123"`
	BidValue float64 `json:"bid_value" binding:"required,gt=0" example:"25.5"`
} // @name PlaceBidRequest

type BidResponse struct {
	Message string `json:"message"`
} // @name BidResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
