package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = 7 * 24 * time.Hour
	bcryptCost      = 12
	secretSetting   = "jwt_secret"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoAdminKey   = errors.New("admin key not configured")
)

// Identity is the verified claim set of a connect token
type Identity struct {
	Email string
	Name  string
}

// Auth signs and checks identity tokens and the admin key
type Auth struct {
	jwtSecret    []byte
	adminKeyHash []byte
}

// NewAuth creates an Auth. An empty secret is loaded from (or generated
// into) the settings table.
func NewAuth(db *DB, secret, adminKeyHash string) (*Auth, error) {
	a := &Auth{adminKeyHash: []byte(adminKeyHash)}
	if secret != "" {
		a.jwtSecret = []byte(secret)
		return a, nil
	}
	s, err := loadOrCreateSecret(db)
	if err != nil {
		return nil, err
	}
	a.jwtSecret = s
	return a, nil
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB) ([]byte, error) {
	if db != nil {
		h, ok, err := db.GetSetting(secretSetting)
		if err != nil {
			return nil, fmt.Errorf("load jwt secret: %w", err)
		}
		if ok {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b, nil
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate jwt secret: %w", err)
	}
	if db != nil {
		if err := db.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			zap.L().Warn("could not persist jwt secret", zap.Error(err))
		}
	}
	return secret, nil
}

// IssueToken signs an identity token
func (a *Auth) IssueToken(email, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"email": strings.ToLower(strings.TrimSpace(email)),
		"name":  name,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken checks signature and expiry and returns the identity
func (a *Auth) ValidateToken(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return Identity{}, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)
	return Identity{Email: email, Name: name}, nil
}

// CheckAdminKey compares key against the configured bcrypt hash
func (a *Auth) CheckAdminKey(key string) error {
	if len(a.adminKeyHash) == 0 {
		return ErrNoAdminKey
	}
	return bcrypt.CompareHashAndPassword(a.adminKeyHash, []byte(key))
}

// HashAdminKey produces the value for the admin_key_hash setting
func HashAdminKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash admin key: %w", err)
	}
	return string(hash), nil
}
