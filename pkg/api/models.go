package api

type RegisterRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Language  string `json:"language"`
	Timezone  string `json:"timezone"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

type Business struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Card is a customer's punch card. Listings of a business's card
// templates carry the id under punch_card_id instead.
type Card struct {
	ID                string `json:"id"`
	PunchCardID       string `json:"punch_card_id"`
	Name              string `json:"name"`
	RewardName        string `json:"reward_name"`
	CurrentStampCount int    `json:"current_stamp_count"`
	TotalStampCount   int    `json:"total_stamp_count"`
}

// TemplateID returns whichever id field a punch-card listing populated.
func (c Card) TemplateID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.PunchCardID
}

// Filled reports whether the card has collected every stamp and the
// reward can be redeemed.
func (c Card) Filled() bool {
	return c.TotalStampCount > 0 && c.CurrentStampCount >= c.TotalStampCount
}
