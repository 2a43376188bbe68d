package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vlasovdm/taskdeck/backend/internal/common/constants"
	commonerrors "github.com/vlasovdm/taskdeck/backend/internal/common/errors"
)

type Config struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	TokenTTL        time.Duration
	RequestTimeout  time.Duration
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	PushSendTimeout time.Duration
	PushTTLSeconds  int
}

func Load() (Config, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if len(jwtSecret) < constants.JWTSecretMinLength {
		return Config{}, fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(jwtSecret))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	vapidPublic, err := mustEnv("VAPID_PUBLIC_KEY")
	if err != nil {
		return Config{}, err
	}

	vapidPrivate, err := mustEnv("VAPID_PRIVATE_KEY")
	if err != nil {
		return Config{}, err
	}

	// Uncompressed P-256 point and scalar, base64url without padding.
	if !validVAPIDKey(vapidPublic, 65) || !validVAPIDKey(vapidPrivate, 32) {
		return Config{}, commonerrors.ErrInvalidVAPIDKeys
	}

	return Config{
		HTTPPort:        getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:     databaseURL,
		JWTSecret:       jwtSecret,
		TokenTTL:        getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		VAPIDPublicKey:  vapidPublic,
		VAPIDPrivateKey: vapidPrivate,
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:admin@taskdeck.app"),
		PushSendTimeout: getDurationEnv("PUSH_SEND_TIMEOUT", constants.DefaultPushSendTimeout),
		PushTTLSeconds:  getIntEnv("PUSH_TTL_SECONDS", constants.DefaultPushPayloadTTLSeconds),
	}, nil
}

func validVAPIDKey(value string, size int) bool {
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	return err == nil && len(decoded) == size
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
