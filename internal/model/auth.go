package model

import "github.com/golang-jwt/jwt/v5"

// AccountClaims are JWT claims for a user acting on behalf of an account
type AccountClaims struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Account  string `json:"account" validate:"required"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"accountId"`
}
