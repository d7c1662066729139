package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

type sessionStoreStub struct {
	byID    map[string]SessionRecord
	byToken map[string]SessionRecord
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{
		byID:    map[string]SessionRecord{},
		byToken: map[string]SessionRecord{},
	}
}

func (s *sessionStoreStub) Create(_ context.Context, session SessionRecord, refreshToken string) error {
	s.byID[session.SID] = session
	s.byToken[refreshToken] = session
	return nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, sid string) (SessionRecord, error) {
	session, ok := s.byID[sid]
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) GetByRefreshToken(_ context.Context, refreshToken string) (SessionRecord, error) {
	session, ok := s.byToken[refreshToken]
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) RotateRefresh(_ context.Context, sid, oldToken, newToken string, expiresAt time.Time) error {
	session, ok := s.byID[sid]
	if !ok {
		return ErrSessionNotFound
	}
	delete(s.byToken, oldToken)
	session.ExpiresAt = expiresAt
	s.byID[sid] = session
	s.byToken[newToken] = session
	return nil
}

func (s *sessionStoreStub) DeleteSession(_ context.Context, sid string) error {
	delete(s.byID, sid)
	for token, session := range s.byToken {
		if session.SID == sid {
			delete(s.byToken, token)
		}
	}
	return nil
}

func (s *sessionStoreStub) DeleteAllForUser(_ context.Context, userID int64) error {
	for sid, session := range s.byID {
		if session.UserID == userID {
			_ = s.DeleteSession(context.Background(), sid)
		}
	}
	return nil
}

type userStoreStub struct {
	nextID  int64
	byEmail map[string]pgrepo.UserRow
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{byEmail: map[string]pgrepo.UserRow{}}
}

func (u *userStoreStub) Create(_ context.Context, email, passwordHash, role string, at time.Time) (pgrepo.UserRow, error) {
	if _, ok := u.byEmail[email]; ok {
		return pgrepo.UserRow{}, ErrEmailTaken
	}
	u.nextID++
	row := pgrepo.UserRow{ID: u.nextID, Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: at, UpdatedAt: at}
	u.byEmail[email] = row
	return row, nil
}

func (u *userStoreStub) GetByEmail(_ context.Context, email string) (pgrepo.UserRow, error) {
	row, ok := u.byEmail[email]
	if !ok {
		return pgrepo.UserRow{}, pgrepo.ErrUserNotFound
	}
	return row, nil
}

func newTestService() (*Service, *sessionStoreStub, *userStoreStub) {
	sessions := newSessionStoreStub()
	users := newUserStoreStub()
	svc := NewService(NewJWTManager("test-secret", 15*time.Minute), sessions, users, MinRefreshTTL)
	return svc, sessions, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, users := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, "Anna@Example.com ", "password123", true)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("register must issue a token pair")
	}
	if result.Me.Role != "escort" {
		t.Fatalf("role = %q, want escort", result.Me.Role)
	}
	if result.Me.Email != "anna@example.com" {
		t.Fatalf("email = %q, want normalized", result.Me.Email)
	}
	if stored := users.byEmail["anna@example.com"]; stored.PasswordHash == "password123" {
		t.Fatal("password must not be stored in the clear")
	}

	if _, err := svc.Register(ctx, "anna@example.com", "password123", false); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email err = %v, want ErrEmailTaken", err)
	}

	if _, err := svc.Login(ctx, "anna@example.com", "password123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Login(ctx, "anna@example.com", "wrong-pass"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("bad password err = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Login(ctx, "ghost@example.com", "password123"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown email err = %v, want ErrUnauthorized", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "password123", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad email err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Register(ctx, "ok@example.com", "short", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short password err = %v, want ErrInvalidInput", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, "anna@example.com", "password123", false)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == result.RefreshToken {
		t.Fatal("refresh must rotate the refresh token")
	}

	if _, err := svc.Refresh(ctx, result.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("reused token err = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Refresh(ctx, refreshed.RefreshToken); err != nil {
		t.Fatalf("rotated token must stay valid: %v", err)
	}
}

func TestValidateAccessToken(t *testing.T) {
	svc, sessions, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, "anna@example.com", "password123", false)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != result.Me.ID || claims.Role != "visitor" {
		t.Fatalf("claims = %+v, want user %d visitor", claims, result.Me.ID)
	}

	// A revoked session invalidates an otherwise well-formed token.
	if err := sessions.DeleteSession(ctx, claims.SID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, result.AccessToken); err == nil {
		t.Fatal("token for a deleted session must be rejected")
	}

	if _, err := svc.ValidateAccessToken(ctx, "garbage"); err == nil {
		t.Fatal("malformed token must be rejected")
	}
}

func TestLogout(t *testing.T) {
	svc, sessions, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, "anna@example.com", "password123", false)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	claims, err := svc.ValidateAccessToken(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.byID) != 0 {
		t.Fatal("logout must drop the session")
	}
}
