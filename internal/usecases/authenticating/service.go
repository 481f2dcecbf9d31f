package authenticating

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/rfm-segmentation-api/internal/config"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenLifetime = 24 * time.Hour

type Authenticator interface {
	LoginUser(email, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	accounts      map[string]domain.Analyst
	secretKey     string
	tokenLifetime time.Duration
	now           func() time.Time
}

func NewService(cfg *config.Config) (Authenticator, error) {
	accounts, err := ParseAccounts(cfg.Auth.Users)
	if err != nil {
		return nil, err
	}

	lifetime := cfg.Auth.TokenLifetime
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}

	return &Service{
		accounts:      accounts,
		secretKey:     cfg.SecretKey,
		tokenLifetime: lifetime,
		now:           time.Now,
	}, nil
}

// ParseAccounts lê as contas no formato email:role_id:bcrypt_hash
func ParseAccounts(entries []string) (map[string]domain.Analyst, error) {
	accounts := make(map[string]domain.Analyst, len(entries))
	for i, entry := range entries {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, NewAuthError(ErrInvalidAccount, apiErrors.ErrInternalServer, fmt.Sprintf("entrada %d inválida", i+1))
		}

		roleID, err := strconv.Atoi(parts[1])
		if err != nil || roleID < domain.RoleAdmin || roleID > domain.RoleViewer {
			return nil, NewAuthError(ErrInvalidAccount, apiErrors.ErrInternalServer, fmt.Sprintf("perfil inválido na entrada %d", i+1))
		}

		email := handleEmail(parts[0])
		accounts[email] = domain.Analyst{
			Email:        email,
			RoleID:       roleID,
			PasswordHash: parts[2],
		}
	}
	return accounts, nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) LoginUser(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = handleEmail(email)

	account, ok := s.accounts[email]
	if !ok {
		// Mesma resposta para conta inexistente e senha errada
		return "", NewAccountAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, email, "Conta não encontrada")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", NewAccountAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, email, "Senha incorreta")
	}

	token, err := s.generateJWT(account)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return token, nil
}

func (s *Service) generateJWT(account domain.Analyst) (string, error) {
	now := s.now()
	claims := domain.Claims{
		UserEmail:  account.Email,
		UserRoleID: account.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
}

// CodeFor retorna o código de API associado ao erro de autenticação
func CodeFor(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return apiErrors.ErrInternalServer
}
