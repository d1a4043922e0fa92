package types

type LoginForm struct {
	Name  string `form:"name"`
	Email string `form:"email"`
	PIN   string `form:"pin"`
}

type RoleForm struct {
	Role string `form:"role"`
}

type ListingForm struct {
	DonorType       string `form:"donor_type"`
	FoodDescription string `form:"food_description"`
	Quantity        string `form:"quantity"`
	ExpiryDate      string `form:"expiry_date"`
	PickupWindow    string `form:"pickup_window"`
	Location        string `form:"location"`
	Notes           string `form:"notes"`
}

type AckForm struct {
	Side string `form:"side"`
}

type ChatForm struct {
	Text string `form:"text"`
}
