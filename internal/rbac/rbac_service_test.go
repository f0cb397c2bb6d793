package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewEnforcer()
	require.NoError(t, err)
	service, err := NewService(enforcer, zap.NewNop())
	require.NoError(t, err)
	return service
}

func TestEnforceEmployee(t *testing.T) {
	service := newTestService(t)

	allowed, err := service.Enforce(RoleEmployee, "timesheet", "write")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.Enforce(RoleEmployee, "timesheet", "review")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.Enforce(RoleEmployee, "timesheet", "delete")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEnforceManagerInheritsEmployee(t *testing.T) {
	service := newTestService(t)

	allowed, err := service.Enforce(RoleManager, "timesheet", "review")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.Enforce(RoleManager, "timesheet", "write")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.Enforce(RoleManager, "employee", "delete")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEnforceAdminInheritsAll(t *testing.T) {
	service := newTestService(t)

	for _, grant := range [][3]string{
		{RoleAdmin, "timesheet", "delete"},
		{RoleAdmin, "timesheet", "review"},
		{RoleAdmin, "timesheet", "write"},
		{RoleAdmin, "holiday", "import"},
		{RoleAdmin, "report", "export"},
	} {
		allowed, err := service.Enforce(grant[0], grant[1], grant[2])
		require.NoError(t, err)
		assert.True(t, allowed, "%s %s:%s", grant[0], grant[1], grant[2])
	}
}

func TestEnforceNormalizesRole(t *testing.T) {
	service := newTestService(t)

	allowed, err := service.Enforce(" manager ", "timesheet", "review")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestEnforceUnknownRole(t *testing.T) {
	service := newTestService(t)

	allowed, err := service.Enforce("INTRUDER", "timesheet", "read")
	require.NoError(t, err)
	assert.False(t, allowed)
}
