package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/upstream"
)

type authClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseProvider: Firebase Authentication 어댑터입니다.
type FirebaseProvider struct {
	client  authClient
	timeout time.Duration
}

// NewFirebaseProvider: 서비스 계정 파일로 Firebase 앱을 초기화합니다.
func NewFirebaseProvider(ctx context.Context, cfg config.IdentityConfig) (*FirebaseProvider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}
	app, err := firebase.NewApp(ctx, appConfig, option.WithCredentialsFile(cfg.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseProvider{client: client, timeout: cfg.Timeout()}, nil
}

// CreateAccount: 계정을 만들고 제공자가 발급한 uid 를 반환합니다.
func (p *FirebaseProvider) CreateAccount(ctx context.Context, account Account) (string, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	user := (&auth.UserToCreate{}).Email(account.Email).Password(account.Password)
	if account.DisplayName != "" {
		user = user.DisplayName(account.DisplayName)
	}

	record, err := p.client.CreateUser(ctx, user)
	if err != nil {
		return "", relay(ctx, "create_user", err)
	}
	return record.UID, nil
}

// ValidateSession: ID 토큰을 검증합니다. 토큰 문제는 ErrInvalidSession 으로 감쌉니다.
func (p *FirebaseProvider) ValidateSession(ctx context.Context, token string) (Session, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	verified, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		if auth.IsIDTokenInvalid(err) {
			return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
		}
		return Session{}, relay(ctx, "verify_id_token", err)
	}

	session := Session{UID: verified.UID, ExpiresAt: time.Unix(verified.Expires, 0)}
	if email, ok := verified.Claims["email"].(string); ok {
		session.Email = email
	}
	return session, nil
}

func (p *FirebaseProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

// relay: 제공자 오류는 그대로 두고 대기 한도 만료만 upstream 오류로 바꿉니다.
func relay(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return upstream.New(upstream.ServiceIdentity, op, err)
	}
	return err
}
