package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/repository"
)

func TestListingRepository_ListPublished(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewListingRepository(mock)

	now := time.Now().UTC()
	mileage := 45000
	rows := pgxmock.NewRows([]string{
		"id", "dealer_id", "title", "slug", "make", "model", "year",
		"price_minor", "currency", "mileage_km", "status", "published",
		"featured", "created_at", "updated_at",
	}).AddRow(
		"l1", "d1", "2019 Toyota Avanza", "avanza-2019", "Toyota", "Avanza", 2019,
		int64(15500000000), "IDR", &mileage, domain.ListingStatusApproved, true,
		false, now, now,
	)

	mock.ExpectQuery(`SELECT .+ FROM market\.listings WHERE published = \$1 AND status = \$2 ORDER BY created_at DESC`).
		WithArgs(true, domain.ListingStatusApproved).
		WillReturnRows(rows)

	listings, err := repo.ListPublished(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("ListPublished returned error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].MileageKm == nil || *listings[0].MileageKm != 45000 {
		t.Fatalf("mileage not scanned: %+v", listings[0].MileageKm)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListingRepository_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewListingRepository(mock)

	mock.ExpectExec(`UPDATE market\.listings SET status = \$1 WHERE id = \$2`).
		WithArgs(domain.ListingStatusApproved, "l1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateStatus(context.Background(), "l1", domain.ListingStatusApproved); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
}

func TestListingRepository_UpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewListingRepository(mock)

	mock.ExpectExec(`UPDATE market\.listings SET status = \$1 WHERE id = \$2`).
		WithArgs(domain.ListingStatusRejected, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.UpdateStatus(context.Background(), "missing", domain.ListingStatusRejected); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListingRepository_CompareAndSetFeatured(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewListingRepository(mock)

	mock.ExpectExec(`UPDATE market\.listings SET featured = \$1 WHERE featured = \$2 AND id = \$3`).
		WithArgs(true, false, "l1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	applied, err := repo.CompareAndSetBoolField(context.Background(), "l1", "featured", false, true)
	if err != nil {
		t.Fatalf("CompareAndSetBoolField returned error: %v", err)
	}
	if !applied {
		t.Fatalf("expected write to apply")
	}
}
