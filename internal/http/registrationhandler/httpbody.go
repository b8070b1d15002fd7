package registrationhandler

type ProfileBody struct {
	Industries   []string `json:"industries"    binding:"required,min=1"`
	Professions  []string `json:"professions"   binding:"required,min=1"`
	Email        string   `json:"email"         binding:"required,email"`
	FullName     string   `json:"full_name"     binding:"required"`
	BusinessName string   `json:"business_name" binding:"required"`
} // @name RegistrationProfileRequest

type SelectCountryBody struct {
	Country string `json:"country" binding:"required" example:"United States"`
} // @name SelectCountryRequest

type StatesBody struct {
	States []string `json:"states" binding:"required"`
} // @name StatesRequest

type LicenseFieldBody struct {
	Kind string `json:"kind" binding:"required,oneof=metrc cannabis business"`
} // @name LicenseFieldRequest

type LicenseValueBody struct {
	Kind  string `json:"kind"  binding:"required,oneof=metrc cannabis business"`
	Index int    `json:"index" binding:"min=0"`
	Value string `json:"value"`
} // @name LicenseValueRequest

type SubmitBody struct {
	Password string `json:"password" binding:"required,min=6"`
} // @name RegistrationSubmitRequest

type SubmitResponse struct {
	Message string `json:"message"`
} // @name RegistrationSubmitResponse

type OverviewErrorResponse struct {
	Error string `json:"error"`
	Reset bool   `json:"reset"`
} // @name OverviewErrorResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name RegistrationErrorResponse
