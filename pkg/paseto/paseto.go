package paseto

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/o1egl/paseto"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
)

const tokenDuration = 24 * time.Hour

// Claims is the session snapshot carried inside every token. It replaces the
// original client-side stored profile: every protected request re-derives the
// acting employee from here instead of trusting client state.
type Claims struct {
	EmployeeID   primitive.ObjectID `json:"employee_id"`
	EmployeeCode string             `json:"employee_code"`
	Email        string             `json:"email"`
	Role         string             `json:"role"`
}

// IsAdmin mirrors models.Employee.IsAdmin for the token-derived session.
func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin || c.Role == models.RoleHR
}

// Maker issues and validates symmetric v2 tokens.
type Maker struct {
	paseto *paseto.V2
	key    []byte
}

// NewMaker builds a Maker from a base64 URL-encoded 32-byte key.
func NewMaker(encodedKey string) (*Maker, error) {
	key, err := base64.URLEncoding.DecodeString(encodedKey)
	if err != nil {
		key, err = base64.StdEncoding.DecodeString(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("key is not valid base64: %w", err)
		}
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be exactly 32 bytes after decoding, got %d", len(key))
	}
	return &Maker{paseto: paseto.NewV2(), key: key}, nil
}

func (m *Maker) GenerateToken(employee *models.Employee) (string, error) {
	now := time.Now()

	token := paseto.JSONToken{
		Jti:        uuid.NewString(),
		IssuedAt:   now,
		Expiration: now.Add(tokenDuration),
		NotBefore:  now,
	}

	token.Set("employee_id", employee.ID.Hex())
	token.Set("employee_code", employee.EmployeeID)
	token.Set("email", employee.Email)
	token.Set("role", employee.Role)

	return m.paseto.Encrypt(m.key, token, "")
}

func (m *Maker) ValidateToken(tokenString string) (*Claims, error) {
	var token paseto.JSONToken
	var footer string

	if err := m.paseto.Decrypt(tokenString, m.key, &token, &footer); err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	if err := token.Validate(); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	employeeID, err := primitive.ObjectIDFromHex(token.Get("employee_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid employee_id claim: %w", err)
	}

	return &Claims{
		EmployeeID:   employeeID,
		EmployeeCode: token.Get("employee_code"),
		Email:        token.Get("email"),
		Role:         token.Get("role"),
	}, nil
}
