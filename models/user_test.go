package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	u := User{Email: "a@x.com", Password: "hunter22"}
	require.NoError(t, u.HashPassword())

	assert.NotEqual(t, "hunter22", u.Password)
	assert.True(t, u.ComparePassword("hunter22"))
	assert.False(t, u.ComparePassword("hunter23"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("citizen"))
	assert.True(t, ValidRole("ngo"))
	assert.True(t, ValidRole("admin"))
	assert.False(t, ValidRole("superuser"))
}
