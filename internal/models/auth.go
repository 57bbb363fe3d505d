package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest holds payload for creating a login account.
type RegisterRequest struct {
	Name     string       `json:"name" validate:"required"`
	Email    string       `json:"email" validate:"required,email"`
	Username string       `json:"username" validate:"required,min=3"`
	Password string       `json:"password" validate:"required,min=6"`
	Position UserPosition `json:"position" validate:"required,oneof='System Administrator' Student Faculty"`
}

// LoginRequest authenticates by email or username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateProfileRequest carries the multipart profile form fields. The
// optional image stream is handled separately by the handler.
type UpdateProfileRequest struct {
	Name      string `form:"name" validate:"required"`
	Phone     string `form:"phone"`
	Address   string `form:"address"`
	Birthdate string `form:"birthdate"`
	Gender    string `form:"gender"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string       `json:"user_id"`
	Position UserPosition `json:"position"`
	Email    string       `json:"email"`
	jwt.RegisteredClaims
}
