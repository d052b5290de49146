package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "bloodlink_access_token"
)
