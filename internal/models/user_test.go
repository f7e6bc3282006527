package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserRole(t *testing.T) {
	tests := []struct {
		in   string
		want UserRole
	}{
		{"USER", RoleUser},
		{"FACILITY_OWNER", RoleFacilityOwner},
		{"ADMIN", RoleAdmin},
		{"", RoleUser},
		{"garbage", RoleUser},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseUserRole(tt.in), "ParseUserRole(%q)", tt.in)
	}
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleUser.Has(CapBookingsManage))
	assert.False(t, RoleUser.Has(CapFacilitiesManage))
	assert.False(t, RoleUser.Has(CapUsersRead))

	assert.True(t, RoleFacilityOwner.Has(CapFacilitiesManage))
	assert.False(t, RoleFacilityOwner.Has(CapUsersRead))

	assert.True(t, RoleAdmin.Has(CapFacilitiesManage))
	assert.True(t, RoleAdmin.Has(CapUsersRead))
	assert.True(t, RoleAdmin.Has(CapReviewsManage))
}
