package auth

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sqlite message", err: stderrors.New("UNIQUE constraint failed: users.email"), want: true},
		{name: "postgres message", err: stderrors.New(`pq: duplicate key value violates unique constraint "users_email_key"`), want: true},
		{name: "wrapped message", err: fmt.Errorf("insert: %w", stderrors.New("UNIQUE constraint failed: users.user_name")), want: true},
		{name: "other constraint", err: stderrors.New("NOT NULL constraint failed: users.email"), want: false},
		{name: "unrelated", err: stderrors.New("database is locked"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
