package identity

import (
	"context"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var (
	ErrInvalidToken = errors.New("invalid id token")
	ErrExpiredToken = errors.New("id token expired")
)

// Identity is the verified subject of an ID token.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

type Verifier interface {
	VerifyIDToken(ctx context.Context, token string) (*Identity, error)
}

type Config struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
}

type firebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, cfg Config) (Verifier, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		log.Warn("firebase credentials are not set, falling back to application default credentials")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "firebase app init error")
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "firebase auth client init error")
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	verified, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	result := &Identity{UID: verified.UID}
	if email, ok := verified.Claims["email"].(string); ok {
		result.Email = strings.ToLower(email)
	}
	if emailVerified, ok := verified.Claims["email_verified"].(bool); ok {
		result.EmailVerified = emailVerified
	}
	if name, ok := verified.Claims["name"].(string); ok {
		result.Name = name
	}
	return result, nil
}

// StaticVerifier resolves tokens from a fixed table. Used by tests and local development.
type StaticVerifier map[string]Identity

func (v StaticVerifier) VerifyIDToken(_ context.Context, token string) (*Identity, error) {
	item, ok := v[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return &item, nil
}
