package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/listkeeper/internal/auth"
	"github.com/atinyakov/listkeeper/internal/common"
	"github.com/atinyakov/listkeeper/internal/models"
)

type issuerFunc func(identity models.Identity, sessionID string) (string, error)

func (f issuerFunc) Issue(identity models.Identity, sessionID string) (string, error) {
	return f(identity, sessionID)
}

func TestLogin_StoresSessionAndIssues(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	var stored string
	store := &passthroughStore{repos: Repositories{Users: &mockUserRepo{
		FindByUsernameOrEmailFunc: func(_ context.Context, login string) (*models.User, error) {
			return &models.User{ID: 7, Username: "alice", PasswordHash: hash}, nil
		},
		SetSessionIDFunc: func(_ context.Context, id int64, sid string) error {
			if id != 7 {
				t.Errorf("SetSessionID id = %d; want 7", id)
			}
			stored = sid
			return nil
		},
	}}}
	issuer := issuerFunc(func(identity models.Identity, sid string) (string, error) {
		if identity != (models.Identity{UserID: 7, Username: "alice"}) {
			t.Errorf("Issue identity = %+v", identity)
		}
		return "token-" + sid, nil
	})

	svc := NewAccountService(store, issuer)
	svc.newSessionID = func() string { return "sid-1" }

	res, err := svc.Login(context.Background(), models.LoginRequest{UsernameOrEmail: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if stored != "sid-1" || res.Token != "token-sid-1" || res.Type != "Bearer" {
		t.Errorf("stored = %q, result = %+v", stored, res)
	}
}

func TestLogin_StorageErrorIsNotCredentialError(t *testing.T) {
	wantErr := errors.New("db down")
	store := &passthroughStore{repos: Repositories{Users: &mockUserRepo{
		FindByUsernameOrEmailFunc: func(context.Context, string) (*models.User, error) {
			return nil, wantErr
		},
	}}}

	_, err := NewAccountService(store, nil).Login(context.Background(), models.LoginRequest{UsernameOrEmail: "alice", Password: "pw"})
	if !errors.Is(err, wantErr) || errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("Login error = %v; want %v", err, wantErr)
	}
}

func TestLogin_EmptyInput(t *testing.T) {
	store := &passthroughStore{}
	_, err := NewAccountService(store, nil).Login(context.Background(), models.LoginRequest{UsernameOrEmail: " "})
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("Login error = %v; want ErrInvalidCredentials", err)
	}
	if store.calls != 0 {
		t.Errorf("store.Do called %d times; want 0", store.calls)
	}
}

func TestUpdatePassword_IssueError(t *testing.T) {
	wantErr := errors.New("sign failed")
	store := &passthroughStore{repos: Repositories{Users: &mockUserRepo{
		FindByIDFunc: func(context.Context, int64) (*models.User, error) {
			return &models.User{ID: 7, Username: "alice"}, nil
		},
		UpdatePasswordFunc: func(_ context.Context, _ int64, hash, sid string) error {
			if hash == "" || sid == "" {
				t.Errorf("UpdatePassword hash = %q, sid = %q; want both set", hash, sid)
			}
			return nil
		},
	}}}
	issuer := issuerFunc(func(models.Identity, string) (string, error) { return "", wantErr })

	_, err := NewAccountService(store, issuer).UpdatePassword(context.Background(), 7, "new")
	if !errors.Is(err, wantErr) {
		t.Fatalf("UpdatePassword error = %v; want %v", err, wantErr)
	}
}
