package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"workboard/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret []byte // loaded from JWT_SECRET

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

func registerUser(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("valid email required")
	}
	if len(password) < 6 { // basic password policy
		return fmt.Errorf("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return fmt.Errorf("user already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{Email: email, HashedPassword: hash}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race after the initial check
			return fmt.Errorf("user already exists")
		}
		return err
	}
	return nil
}

func authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// ensureProfile creates the principal's profile lazily on first sign-in,
// defaulting the display name to the email local part.
func ensureProfile(ctx context.Context, user models.User) (models.Profile, error) {
	var profile models.Profile
	err := db.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error
	if err == nil {
		return profile, nil
	}
	name := user.Email
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	profile = models.Profile{UserID: user.ID, Name: name, Role: models.RoleUser}
	if err := db.WithContext(ctx).Where("user_id = ?", user.ID).FirstOrCreate(&profile).Error; err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

func signAccessToken(user models.User, role models.Role) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": string(role),
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string.
func createAndStoreRefreshToken(ctx context.Context, userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	rt := models.RefreshToken{UserID: userID, TokenHash: hex.EncodeToString(h[:]), ExpiresAt: time.Now().Add(refreshTokenTTL)}
	if err := db.WithContext(ctx).Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(ctx context.Context, token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	var rt models.RefreshToken
	if err := db.WithContext(ctx).Where("token_hash = ?", hex.EncodeToString(h[:])).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}
