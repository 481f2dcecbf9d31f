package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin   = 1
	RoleAnalyst = 2
	RoleViewer  = 3
)

// Analyst é uma conta configurada com acesso à API de análise
type Analyst struct {
	Email        string `json:"email"`
	RoleID       int    `json:"role_id"`
	PasswordHash string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Claims struct {
	UserEmail  string
	UserRoleID int
	jwt.RegisteredClaims
}
