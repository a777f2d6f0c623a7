package domain_test

import (
	"testing"

	"github.com/budgetd/budgetd/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	t.Parallel()
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleWrite))
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleAdmin))
	assert.True(t, domain.RoleWrite.AtLeast(domain.RoleRead))
	assert.False(t, domain.RoleRead.AtLeast(domain.RoleWrite))
	assert.False(t, domain.RoleWrite.AtLeast(domain.RoleAdmin))
}

func TestParseRole_RoundTrip(t *testing.T) {
	t.Parallel()
	for _, role := range []domain.Role{domain.RoleRead, domain.RoleWrite, domain.RoleAdmin} {
		parsed, err := domain.ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}
}

func TestParseRole_Unknown(t *testing.T) {
	t.Parallel()
	_, err := domain.ParseRole("Owner")
	assert.Error(t, err)
}
