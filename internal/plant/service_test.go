package plant

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"plantgarden/internal/common"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			"duplicate key error",
			&pgconn.PgError{Code: "23505", ConstraintName: "idx_plants_one_active_per_child"},
			true,
		},
		{
			"wrapped duplicate key error",
			fmt.Errorf("create failed: %w", &pgconn.PgError{Code: "23505"}),
			true,
		},
		{
			"other postgres error",
			&pgconn.PgError{Code: "23503"},
			false,
		},
		{
			"plain error",
			errors.New("connection reset"),
			false,
		},
		{
			"nil",
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartRaceLoserMapsToConflict(t *testing.T) {
	// When the one-active-plant index rejects the losing insert, the caller
	// must see a conflict, not an internal error.
	err := common.NewError(common.ErrConflict, "child already has an active plant")
	if got := common.HTTPStatus(err); got != http.StatusConflict {
		t.Errorf("HTTPStatus = %d, want %d", got, http.StatusConflict)
	}
}
