package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDupKeyError(t *testing.T) {
	passthrough := errors.New("Error 1205: Lock wait timeout exceeded")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "duplicate on the email index",
			in:   errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.uq_users_email'"),
			want: ErrEmailExists,
		},
		{
			name: "duplicate on the username index",
			in:   errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.uq_users_username'"),
			want: ErrUsernameExists,
		},
		{
			name: "other driver errors pass through",
			in:   passthrough,
			want: passthrough,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dupKeyError(tt.in))
		})
	}
}
