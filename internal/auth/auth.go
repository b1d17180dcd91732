package auth

import (
	"errors"
	"time"

	"github.com/cryptovault/trading-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid API credentials")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// Credentials represents the API authentication credentials for a wallet.
type Credentials struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

// TokenResponse represents the JWT token response.
type TokenResponse struct {
	Token      string    `json:"jwt_token"`
	Expiration time.Time `json:"expiration"`
}

// Claims represents the JWT claims structure. Every token is scoped to one
// wallet; handlers trust the wallet_id claim, never the request body.
type Claims struct {
	jwt.RegisteredClaims
	WalletID    string   `json:"wallet_id"`
	Permissions []string `json:"permissions"`
}

type walletCredential struct {
	apiSecret string
	walletID  string
}

// Service handles authentication for wallet-scoped API access.
type Service struct {
	jwtSecret []byte
	// Registered API credentials keyed by API key. In a real deployment
	// this would live in the wallet identity store.
	credentials map[string]walletCredential
}

// NewService creates a new authentication service with the given JWT secret.
func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret:   []byte(jwtSecret),
		credentials: make(map[string]walletCredential),
	}
}

// RegisterWalletCredentials registers API credentials bound to a wallet.
func (s *Service) RegisterWalletCredentials(walletID, apiKey, apiSecret string) {
	s.credentials[apiKey] = walletCredential{apiSecret: apiSecret, walletID: walletID}
}

// GenerateToken generates a 24-hour JWT for valid wallet credentials.
func (s *Service) GenerateToken(creds Credentials) (*TokenResponse, error) {
	cred, ok := s.credentials[creds.APIKey]
	if !ok || cred.apiSecret != creds.APISecret {
		return nil, ErrInvalidCredentials
	}

	expiration := time.Now().Add(24 * time.Hour)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
		WalletID:    cred.walletID,
		Permissions: []string{"trade"},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, ErrTokenGeneration
	}

	return &TokenResponse{
		Token:      tokenString,
		Expiration: expiration,
	}, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GinHandlers contains HTTP handlers for authentication endpoints.
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for authentication endpoints.
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// GenerateTokenHandler handles POST requests to generate JWT tokens.
func (h *GinHandlers) GenerateTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}

		token, err := h.service.GenerateToken(creds)
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.Handle(c, token, err)
	}
}

// GetWalletID extracts the wallet ID from parsed JWT claims.
// Returns empty string if the claim is missing or has the wrong type.
func GetWalletID(claims interface{}) string {
	if jwtClaims, ok := claims.(jwt.MapClaims); ok {
		if walletID, ok := jwtClaims["wallet_id"].(string); ok {
			return walletID
		}
	}
	return ""
}
