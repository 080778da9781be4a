package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/repository"
)

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	user := domain.User{
		ID:             "user-123",
		Email:          "budi@example.com",
		Name:           "Budi Santoso",
		Role:           domain.RoleUser,
		FinanceEnabled: false,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	mock.ExpectExec(`INSERT INTO market\.users`).
		WithArgs(
			user.ID,
			user.Email,
			user.Name,
			user.Role,
			user.FinanceEnabled,
			user.Active,
			user.CreatedAt,
			user.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM market\.users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetBoolField(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT finance_enabled FROM market\.users WHERE id = \$1`).
		WithArgs("user-123").
		WillReturnRows(pgxmock.NewRows([]string{"finance_enabled"}).AddRow(true))

	value, err := repo.GetBoolField(context.Background(), "user-123", "financeEnabled")
	if err != nil {
		t.Fatalf("GetBoolField returned error: %v", err)
	}
	if !value {
		t.Fatalf("expected true, got false")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_GetBoolFieldNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT finance_enabled FROM market\.users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.GetBoolField(context.Background(), "missing", "financeEnabled"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetBoolFieldUnknownField(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	// No SQL may be issued for an unregistered field.
	if _, err := repo.GetBoolField(context.Background(), "user-123", "active"); !errors.Is(err, repository.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected SQL issued: %v", err)
	}
}

func TestUserRepository_CompareAndSetApplied(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE market\.users SET finance_enabled = \$1 WHERE`).
		WithArgs(true, false, "user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	applied, err := repo.CompareAndSetBoolField(context.Background(), "user-123", "financeEnabled", false, true)
	if err != nil {
		t.Fatalf("CompareAndSetBoolField returned error: %v", err)
	}
	if !applied {
		t.Fatalf("expected write to apply")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CompareAndSetLostRace(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE market\.users SET finance_enabled = \$1 WHERE`).
		WithArgs(true, false, "user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	applied, err := repo.CompareAndSetBoolField(context.Background(), "user-123", "financeEnabled", false, true)
	if err != nil {
		t.Fatalf("CompareAndSetBoolField returned error: %v", err)
	}
	if applied {
		t.Fatalf("expected write to be skipped when the observed value is stale")
	}
}

func TestUserRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "email", "name", "role", "finance_enabled", "active", "created_at", "updated_at"}).
		AddRow("u1", "a@example.com", "A", domain.RoleUser, false, true, now, now).
		AddRow("u2", "b@example.com", "B", domain.RoleDealer, true, true, now, now)

	mock.ExpectQuery(`SELECT .+ FROM market\.users ORDER BY created_at DESC`).
		WillReturnRows(rows)

	users, err := repo.List(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[1].FinanceEnabled != true {
		t.Fatalf("expected second user finance enabled")
	}
}
