package models

import "github.com/golang-jwt/jwt/v5"

// User is the authenticated principal returned by the backend on login.
type User struct {
	UserID int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// AuthState is the persisted session slice: bearer token, refresh token and
// the logged in user. Survives restarts via redis.
type AuthState struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// MeetingState tracks an in-progress video consultation. Deliberately not
// persisted; always resets to closed.
type MeetingState struct {
	Open          bool   `json:"open"`
	AppointmentID int    `json:"appointment_id"`
	MeetingLink   string `json:"meeting_link"`
}

// UserClaims are the JWT claims issued by the backend.
type UserClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest carries credentials through to the backend login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
