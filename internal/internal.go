package internal

const (
	COOKIE_REDIRECT_NAME = "food_rescue_redirect"
)
