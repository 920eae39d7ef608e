//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplaintStatus_Valid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, ComplaintStatus("OPEN").Valid())
	assert.False(t, ComplaintStatus("").Valid())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	s, err = ParseStatus("  RESOLVED ")
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, s)

	_, err = ParseStatus("bogus")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestComplaintInput_Validate(t *testing.T) {
	tests := []struct {
		name       string
		input      ComplaintInput
		wantFields []string
	}{
		{
			name:  "valid",
			input: ComplaintInput{Title: "Sewage leak", Description: "Leaking into the river", CategoryID: 2},
		},
		{
			name:       "missing everything",
			input:      ComplaintInput{},
			wantFields: []string{"title", "description", "categoryId"},
		},
		{
			name: "overlong title",
			input: ComplaintInput{
				Title:       strings.Repeat("x", 201),
				Description: "ok",
				CategoryID:  1,
			},
			wantFields: []string{"title"},
		},
		{
			name: "whitespace only",
			input: ComplaintInput{
				Title:       "   ",
				Description: "\t\n",
				CategoryID:  1,
			},
			wantFields: []string{"title", "description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.input.Validate()
			if len(tt.wantFields) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestCountByStatus(t *testing.T) {
	complaints := []Complaint{
		{Status: StatusPending},
		{Status: StatusPending},
		{Status: StatusInProgress},
		{Status: StatusResolved},
		{Status: StatusRejected},
	}

	stats := CountByStatus(complaints)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.Rejected)
}

func TestRegistrationInput_Validate(t *testing.T) {
	valid := RegistrationInput{Name: "Ada", Email: "ada@example.com", Password: "correcthorse"}
	assert.Nil(t, valid.Validate())

	bad := RegistrationInput{Name: "", Email: "not-an-email", Password: "short"}
	errs := bad.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestUserUpdateInput_Validate(t *testing.T) {
	valid := UserUpdateInput{Name: "Ada", Email: "ada@example.com", Role: "admin"}
	assert.Nil(t, valid.Validate())

	bad := UserUpdateInput{Name: "Ada", Email: "ada@example.com", Role: "root"}
	errs := bad.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "role")
}
