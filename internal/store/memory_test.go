package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

func TestMemoryStoreGetUserNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetUser(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreListUserIDsSorted(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser(domain.User{ID: "user-c"})
	s.AddUser(domain.User{ID: "user-a"})
	s.AddUser(domain.User{ID: "user-b"})

	ids, err := s.ListUserIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"user-a", "user-b", "user-c"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], ids[i])
		}
	}
}

func TestMemoryStoreSetConsentGrant(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser(domain.User{ID: "user-a"})
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := s.SetConsent(context.Background(), "user-a", true, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, _ := s.GetUser(context.Background(), "user-a")
	if !u.Consent.Granted {
		t.Error("expected consent granted")
	}
	if u.Consent.GrantedAt == nil || !u.Consent.GrantedAt.Equal(at) {
		t.Errorf("expected granted_at %v, got %v", at, u.Consent.GrantedAt)
	}
	if !u.Consent.UpdatedAt.Equal(at) {
		t.Errorf("expected updated_at %v, got %v", at, u.Consent.UpdatedAt)
	}
}

func TestMemoryStoreSetConsentIdempotentGrant(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser(domain.User{ID: "user-a"})
	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	s.SetConsent(context.Background(), "user-a", true, first)
	s.SetConsent(context.Background(), "user-a", true, second)

	u, _ := s.GetUser(context.Background(), "user-a")
	if !u.Consent.GrantedAt.Equal(first) {
		t.Errorf("repeat grant must not move granted_at: got %v", u.Consent.GrantedAt)
	}
	if !u.Consent.UpdatedAt.Equal(second) {
		t.Errorf("repeat grant refreshes updated_at: got %v", u.Consent.UpdatedAt)
	}
}

func TestMemoryStoreSetConsentRevoke(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser(domain.User{ID: "user-a"})
	granted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	revoked := granted.Add(48 * time.Hour)

	s.SetConsent(context.Background(), "user-a", true, granted)
	s.SetConsent(context.Background(), "user-a", false, revoked)

	u, _ := s.GetUser(context.Background(), "user-a")
	if u.Consent.Granted {
		t.Error("expected consent revoked")
	}
	if u.Consent.RevokedAt == nil || !u.Consent.RevokedAt.Equal(revoked) {
		t.Errorf("expected revoked_at %v, got %v", revoked, u.Consent.RevokedAt)
	}
	if u.Consent.GrantedAt == nil || !u.Consent.GrantedAt.Equal(granted) {
		t.Errorf("granted_at must survive revocation: got %v", u.Consent.GrantedAt)
	}
}

func TestMemoryStoreSetConsentTimestampMonotonic(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser(domain.User{ID: "user-a"})
	later := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-72 * time.Hour)

	s.SetConsent(context.Background(), "user-a", true, later)
	s.SetConsent(context.Background(), "user-a", true, earlier)

	u, _ := s.GetUser(context.Background(), "user-a")
	if !u.Consent.UpdatedAt.Equal(later) {
		t.Errorf("updated_at must never move backward: got %v", u.Consent.UpdatedAt)
	}
}

func TestMemoryStoreSetConsentUnknownUser(t *testing.T) {
	s := NewMemoryStore()
	err := s.SetConsent(context.Background(), "absent", true, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreAccountsAndLiabilities(t *testing.T) {
	s := NewMemoryStore()
	s.AddUser(domain.User{ID: "user-a"})
	s.AddAccount(domain.Account{ID: "cc-1", UserID: "user-a", Type: domain.AccountTypeCredit})
	s.AddAccount(domain.Account{ID: "chk-1", UserID: "user-a", Type: domain.AccountTypeChecking})
	s.AddLiability("user-a", domain.Liability{AccountID: "cc-1", APRPct: 24.99})

	accounts, err := s.AccountsForUser(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}

	liabilities, err := s.LiabilitiesForUser(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(liabilities) != 1 || liabilities[0].APRPct != 24.99 {
		t.Fatalf("unexpected liabilities: %+v", liabilities)
	}

	other, _ := s.AccountsForUser(context.Background(), "user-b")
	if len(other) != 0 {
		t.Errorf("expected no accounts for unknown user, got %d", len(other))
	}
}
