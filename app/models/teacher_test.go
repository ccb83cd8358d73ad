package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSchoolEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  bool
	}{
		{"jane@bishopabiero.ac.ke", true},
		{"JANE@BISHOPABIERO.AC.KE", true},
		{"otieno@bishopabiero.edu", true},
		{"owino@bishopabiero.sch.ke", true},
		{"jane@gmail.com", false},
		{"jane@bishopabiero.ac.ke.evil.com", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSchoolEmail(tt.email), tt.email)
	}
}

func TestCreateTeacherHashesPassword(t *testing.T) {
	t.Parallel()

	teacher, err := CreateTeacher("Jane", "Jane@bishopabiero.ac.ke", "correct-horse", "", true)
	require.NoError(t, err)

	assert.Equal(t, "jane@bishopabiero.ac.ke", teacher.Email)
	assert.NotEqual(t, "correct-horse", teacher.Password)
	assert.True(t, CheckPasswordHash("correct-horse", teacher.Password))
	assert.False(t, CheckPasswordHash("wrong", teacher.Password))
}

func TestCreateTeacherRejectsShortPassword(t *testing.T) {
	t.Parallel()

	_, err := CreateTeacher("Jane", "jane@bishopabiero.ac.ke", "abc", "", true)
	assert.Error(t, err)
}
