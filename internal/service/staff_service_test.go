package service

import (
	"testing"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMember(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStaffService(&env.mu, env.staff, env.hub)

	member, err := svc.CreateMember(&CreateStaffRequest{Name: "Awa", Role: model.RoleBartender, PIN: "1234"})
	require.NoError(t, err)
	assert.True(t, member.IsActive)
	assert.True(t, member.CheckPIN("1234"))
	assert.NotEqual(t, "1234", member.PINHash)

	_, err = svc.CreateMember(&CreateStaffRequest{Name: "Awa", Role: model.RoleManager, PIN: "5678"})
	assert.ErrorIs(t, err, ErrDuplicateStaff)
}

func TestCreateMemberValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStaffService(&env.mu, env.staff, env.hub)

	_, err := svc.CreateMember(&CreateStaffRequest{Name: "Awa", Role: "owner", PIN: "1234"})
	assert.Error(t, err)

	_, err = svc.CreateMember(&CreateStaffRequest{Name: "Awa", Role: model.RoleBartender, PIN: "12"})
	assert.Error(t, err)
}

func TestSetPIN(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStaffService(&env.mu, env.staff, env.hub)
	member := env.seedStaff(t, "Marc", model.RoleBartender, true)

	require.NoError(t, svc.SetPIN(member.ID, "4321"))

	got, err := env.staff.FindByID(member.ID)
	require.NoError(t, err)
	assert.True(t, got.CheckPIN("4321"))
	assert.False(t, got.CheckPIN("1234"))

	assert.ErrorIs(t, svc.SetPIN(member.ID, "12"), ErrWeakPIN)
}

func TestDeactivateReactivate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStaffService(&env.mu, env.staff, env.hub)
	member := env.seedStaff(t, "Marc", model.RoleBartender, true)

	require.NoError(t, svc.Deactivate(member.ID))
	got, _ := env.staff.FindByID(member.ID)
	assert.False(t, got.IsActive)

	require.NoError(t, svc.Reactivate(member.ID))
	got, _ = env.staff.FindByID(member.ID)
	assert.True(t, got.IsActive)
}

func TestListMembersFiltersInactive(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStaffService(&env.mu, env.staff, env.hub)
	env.seedStaff(t, "Awa", model.RoleBartender, true)
	env.seedStaff(t, "Marc", model.RoleBartender, false)

	active, err := svc.ListMembers(false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Awa", active[0].Name)

	all, err := svc.ListMembers(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListMembersHidesPINHash(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStaffService(&env.mu, env.staff, env.hub)
	member := env.seedStaff(t, "Awa", model.RoleBartender, true)

	resp := member.ToResponse()
	assert.Equal(t, member.Name, resp.Name)

	// The response shape carries no secret material at all
	list, err := svc.ListMembers(true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.IsType(t, model.StaffResponse{}, list[0])
}

func TestUpdateMember(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStaffService(&env.mu, env.staff, env.hub)
	member := env.seedStaff(t, "Marc", model.RoleBartender, true)

	updated, err := svc.UpdateMember(member.ID, "Marc K.", model.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "Marc K.", updated.Name)
	assert.Equal(t, model.RoleManager, updated.Role)

	_, err = svc.UpdateMember(member.ID, "Marc", "owner")
	assert.Error(t, err)
}
