package searchhandler

type SetSelectionBody struct {
	Query   string `json:"query"`
	Country string `json:"country"`
	State   string `json:"state"`
} // @name SetSelectionRequest

type ErrorResponse struct {
	Error string `json:"error"`
} // @name SearchErrorResponse
