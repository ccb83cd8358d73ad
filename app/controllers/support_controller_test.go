package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Emmanu-hec2a/bass42/internal/pkg/donation"
)

func TestSupportErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "invalid phone",
			err:  donation.ErrInvalidPhone,
			want: "Invalid phone number format",
		},
		{
			name: "invalid amount",
			err:  donation.ErrInvalidAmount,
			want: "Amount must be at least KES 1",
		},
		{
			name: "wrapped validation error",
			err:  errors.Join(donation.ErrValidation, errors.New("name is required")),
			want: "All fields are required",
		},
		{
			name: "provider failure keeps detail",
			err:  errors.New("payment initiation failed: provider unavailable"),
			want: "payment initiation failed: provider unavailable",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, supportErrorMessage(tt.err))
		})
	}
}
