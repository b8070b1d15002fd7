package upstream

import "time"

// Auction is the backend's auction detail payload, reduced to the fields the
// gateway reads.
type Auction struct {
	ID               string    `json:"_id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Images           []string  `json:"images"`
	StartingBid      float64   `json:"startingBid"`
	CurrentBid       float64   `json:"currentBid"`
	StartsAt         time.Time `json:"startingDateAndTime"`
	EndsAt           time.Time `json:"endingDateAndTime"`
	StoreName        string    `json:"storeName"`
	StoreLogo        string    `json:"storeLogo"`
}

type Bid struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userID"`
	AuctionID string    `json:"auctionID"`
	BidValue  float64   `json:"bidValue"`
	CreatedAt time.Time `json:"createdAt"`
}

// BidRequest is forwarded verbatim to POST /api/user/bid/create. It is
// constructed per submit action and never persisted gateway-side.
type BidRequest struct {
	UserID    string  `json:"userID"`
	AuctionID string  `json:"auctionID"`
	BidValue  float64 `json:"bidValue"`
}

type Review struct {
	ID        string    `json:"_id,omitempty"`
	UserID    string    `json:"userID"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type StoreLocation struct {
	Country string `json:"country"`
	State   string `json:"state"`
}

type Membership struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Interval string   `json:"interval"`
	Features []string `json:"features"`
}

type PayPalOrderRequest struct {
	UserID       string `json:"userID"`
	MembershipID string `json:"membershipID"`
}

type PayPalOrder struct {
	OrderID    string `json:"orderID"`
	ApproveURL string `json:"approveURL"`
}

type PurchaseRequest struct {
	UserID       string `json:"userID"`
	MembershipID string `json:"membershipID"`
}

type LoginResult struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	UserData any    `json:"userData"`
}

// RegistrationSubmission is the terminal wizard payload. Credentials ride in
// the submit call only and never touch gateway storage.
type RegistrationSubmission struct {
	Email        string               `json:"email"`
	FullName     string               `json:"fullName"`
	Password     string               `json:"password"`
	BusinessName string               `json:"businessName"`
	Industries   []string             `json:"industry"`
	Professions  []string             `json:"profession"`
	BusinessInfo []BusinessSubmission `json:"businessInfo"`
}

type BusinessSubmission struct {
	Country         string   `json:"country"`
	States          []string `json:"state"`
	MetrcLicense    []string `json:"metrcLicense"`
	CannabisLicense []string `json:"cannabisLicense"`
	BusinessLicense []string `json:"businessLicense"`
}
