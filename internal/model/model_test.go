package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorPassword(t *testing.T) {
	op := &Operator{Email: "planner@example.com", Role: RolePlanner}
	require.NoError(t, op.SetPassword("s3cret!"))

	assert.NotEqual(t, "s3cret!", op.Password)
	assert.True(t, op.CheckPassword("s3cret!"))
	assert.False(t, op.CheckPassword("wrong"))
}

func TestOperatorPrivilegesFollowRole(t *testing.T) {
	planner := &Operator{Role: RolePlanner}
	assert.True(t, planner.HasPrivilege(PrivProductionCommit))
	assert.False(t, planner.HasPrivilege(PrivMaterialWrite))

	viewer := &Operator{Role: RoleViewer}
	assert.False(t, viewer.HasPrivilege(PrivProductionCommit))

	unknown := &Operator{Role: "GUEST"}
	assert.Empty(t, unknown.Privileges())
}

func TestAllPrivilegesReturnsCopy(t *testing.T) {
	all := AllPrivileges()
	all[0] = "tampered"
	assert.NotEqual(t, "tampered", RolePrivileges[RoleAdmin][0])
}

func TestBeforeCreateKeepsPresetID(t *testing.T) {
	id := uuid.New()
	m := &RawMaterial{BaseModel: BaseModel{ID: id}}
	require.NoError(t, m.BeforeCreate(nil))
	assert.Equal(t, id, m.ID)

	fresh := &RawMaterial{}
	require.NoError(t, fresh.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, fresh.ID)
}
