package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/grambazaar/storefront-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:repo_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestNewBaseStoresConnection(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	base := NewBase(newTestDB(t))

	withCtx := base.DB(context.WithValue(context.Background(), struct{}{}, "value"))
	if withCtx == nil || withCtx.Statement == nil {
		t.Fatalf("expected statement created after WithContext")
	}
	if withCtx.Statement.Context == nil {
		t.Fatalf("expected context bound to statement")
	}
}

func TestBaseWithTx(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	tx := db.Session(&gorm.Session{NewDB: true})

	if got := base.WithTx(tx); got.db != tx {
		t.Fatal("expected tx-bound base")
	}
	if got := base.WithTx(nil); got.db != db {
		t.Fatal("nil tx keeps the original connection")
	}
}

func TestTranslate(t *testing.T) {
	if Translate(nil, "x", "op") != nil {
		t.Fatal("nil stays nil")
	}

	nf := Translate(gorm.ErrRecordNotFound, "order not found", "load order")
	if !pkgerrors.IsCode(nf, pkgerrors.CodeNotFound) || pkgerrors.As(nf).Message() != "order not found" {
		t.Fatalf("unexpected not found translation: %v", nf)
	}

	dep := Translate(errors.New("conn reset"), "order not found", "load order")
	if !pkgerrors.IsCode(dep, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", dep)
	}

	conflict := Translate(&pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}, "x", "create user")
	if !pkgerrors.IsCode(conflict, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", conflict)
	}

	typed := pkgerrors.New(pkgerrors.CodeInsufficientStock, "Insufficient stock for Rice")
	if Translate(typed, "x", "op") != typed {
		t.Fatal("typed errors pass through")
	}
}

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestFirstAndAffected(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&widget{ID: 1, Name: "sieve"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	base := NewBase(db)
	ctx := context.Background()

	got, err := First[widget](ctx, base, "id = ?", 1)
	if err != nil || got.Name != "sieve" {
		t.Fatalf("expected sieve, got %+v err %v", got, err)
	}
	if _, err := First[widget](ctx, base, "id = ?", 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := Affected(base.DB(ctx).Model(&widget{}).Where("id = ?", 1).Update("name", "ladle")); err != nil {
		t.Fatalf("expected update to match, got %v", err)
	}
	if err := Affected(base.DB(ctx).Model(&widget{}).Where("id = ?", 9).Update("name", "ladle")); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for missing row, got %v", err)
	}
}
