package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/bloodlink/bloodlink/pkg/pg"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	dup := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}

	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"duplicate key", dup, pg.IsDuplicateKeyError, true},
		{"duplicate key on other error", errors.New("x"), pg.IsDuplicateKeyError, false},
		{"duplicate key on nil", nil, pg.IsDuplicateKeyError, false},
		{"foreign key", fk, pg.IsForeignKeyViolationError, true},
		{"foreign key on duplicate", dup, pg.IsForeignKeyViolationError, false},
		{"check violation", check, pg.IsCheckViolationError, true},
		{"not found", fmt.Errorf("get: %w", pgx.ErrNoRows), pg.IsNotFoundError, true},
		{"not found on nil", nil, pg.IsNotFoundError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}

	assert.Equal(t, "users_email_key", pg.ConstraintName(dup))
	assert.Empty(t, pg.ConstraintName(errors.New("plain")))
}

func TestContains(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", pg.Contains(""))
	assert.Equal(t, "%Addis%", pg.Contains("Addis"))
	assert.Equal(t, `%50\%\_off\\%`, pg.Contains(`50%_off\`))
}
