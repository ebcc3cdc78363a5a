package urls

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	sqlite3 "github.com/mattn/go-sqlite3"
)

func aliasCollision() error {
	return sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintPrimaryKey,
	}
}

// Drives the registry through a real Repository against sqlmock, so
// the transaction traffic of the collision loop is verified exactly:
// k failing commits mean k rollbacks, then one clean commit.
func TestCommitPendingTransactionTraffic(t *testing.T) {
	const k = 2

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT alias, target, created_at FROM urls WHERE target").
		WithArgs("https://example.com").
		WillReturnRows(sqlmock.NewRows([]string{"alias", "target", "created_at"}))

	for i := 0; i < k; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO urls").
			WithArgs(sqlmock.AnyArg(), "https://example.com", sqlmock.AnyArg()).
			WillReturnError(aliasCollision())
		mock.ExpectRollback()
	}
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO urls").
		WithArgs(sqlmock.AnyArg(), "https://example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	codec := newTestCodec(t)
	reg := NewRegistry(NewRepository(db, codec), codec, 10, 5)

	if _, err := reg.GetOrCreate(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if err := reg.CommitPending(context.Background()); err != nil {
		t.Fatalf("CommitPending failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// A second row for the same target means the schema's unique index
// was violated out of band; the lookup must surface that instead of
// silently picking one row.
func TestFindByTargetRejectsDuplicateRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT alias, target, created_at FROM urls WHERE target").
		WithArgs("https://example.com").
		WillReturnRows(sqlmock.NewRows([]string{"alias", "target", "created_at"}).
			AddRow(7, "https://example.com", 1700000000).
			AddRow(11, "https://example.com", 1700000001))

	repo := NewRepository(db, newTestCodec(t))
	if _, err := repo.FindByTarget(context.Background(), "https://example.com"); !errors.Is(err, ErrMultipleTargets) {
		t.Fatalf("FindByTarget err = %v, want ErrMultipleTargets", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCommitPendingTransactionTrafficPastLimit(t *testing.T) {
	const limit = 2

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT alias, target, created_at FROM urls WHERE target").
		WithArgs("https://example.com").
		WillReturnRows(sqlmock.NewRows([]string{"alias", "target", "created_at"}))

	for i := 0; i <= limit; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO urls").
			WithArgs(sqlmock.AnyArg(), "https://example.com", sqlmock.AnyArg()).
			WillReturnError(aliasCollision())
		mock.ExpectRollback()
	}

	codec := newTestCodec(t)
	reg := NewRegistry(NewRepository(db, codec), codec, limit, 1)

	if _, err := reg.GetOrCreate(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if err := reg.CommitPending(context.Background()); !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("CommitPending err = %v, want ErrRegistrationFailed", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
