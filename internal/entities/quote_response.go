package entities

type QuoteResponse struct {
	ResourceKind string `json:"resource_kind"`
	ResourceID   int    `json:"resource_id"`
	Nights       int    `json:"nights"`
	Rooms        int    `json:"rooms"`
	Amount       int    `json:"amount"`
	Currency     string `json:"currency"`
}
