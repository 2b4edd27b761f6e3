package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProject_RoleOf(t *testing.T) {
	project := Project{Members: []Member{
		{UserID: "u1", Role: RoleOwner},
		{UserID: "u2", Role: RoleViewer},
	}}

	require.Equal(t, RoleOwner, project.RoleOf("u1"))
	require.Equal(t, RoleViewer, project.RoleOf("u2"))
	require.Empty(t, project.RoleOf("stranger"))
}

func TestProject_CanAdmin(t *testing.T) {
	project := Project{Members: []Member{
		{UserID: "u1", Role: RoleOwner},
		{UserID: "u2", Role: RoleAdmin},
		{UserID: "u3", Role: RoleMember},
		{UserID: "u4", Role: RoleViewer},
	}}

	require.True(t, project.CanAdmin("u1"))
	require.True(t, project.CanAdmin("u2"))
	require.False(t, project.CanAdmin("u3"))
	require.False(t, project.CanAdmin("u4"))
	require.False(t, project.CanAdmin("stranger"))
}

func TestProject_IsMember(t *testing.T) {
	project := Project{Members: []Member{{UserID: "u1", Role: RoleViewer}}}

	require.True(t, project.IsMember("u1"))
	require.False(t, project.IsMember("u2"))
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleOwner, RoleAdmin, RoleMember, RoleViewer} {
		require.True(t, ValidRole(role))
	}
	require.False(t, ValidRole("superuser"))
	require.False(t, ValidRole(""))
}

func TestDefaultColumns(t *testing.T) {
	require.Equal(t, []string{"Todo", "In Progress", "Review", "Done"}, DefaultColumns())
}
