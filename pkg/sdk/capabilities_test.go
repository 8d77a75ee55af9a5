package sdk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terraconstructs/cohort/pkg/sdk"
)

func TestVisibleCapabilities(t *testing.T) {
	tests := []struct {
		role sdk.Role
		want []sdk.Capability
	}{
		{
			role: sdk.RoleStudent,
			want: []sdk.Capability{sdk.CapabilityInfo, sdk.CapabilityStudentAnalysis},
		},
		{
			role: sdk.RoleTeacher,
			want: []sdk.Capability{sdk.CapabilityInfo, sdk.CapabilityMyAnalysis, sdk.CapabilityMySubjectAnalysis},
		},
		{
			role: sdk.RoleAdmin,
			want: []sdk.Capability{
				sdk.CapabilityInfo, sdk.CapabilityAnalysis, sdk.CapabilitySubjectAnalysis,
				sdk.CapabilitySubscription, sdk.CapabilityMembers, sdk.CapabilityInvitations,
			},
		},
		{
			role: sdk.RoleHead,
			want: []sdk.Capability{
				sdk.CapabilityInfo, sdk.CapabilityAnalysis, sdk.CapabilitySubjectAnalysis,
				sdk.CapabilitySubscription, sdk.CapabilityMembers, sdk.CapabilityInvitations,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := sdk.VisibleCapabilities(tt.role)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, sdk.VisibleCapabilities(tt.role), "repeated calls return the same order")
		})
	}
}

func TestVisibleCapabilities_UnknownRoleIsLeastPrivileged(t *testing.T) {
	student := sdk.VisibleCapabilities(sdk.RoleStudent)

	for _, role := range []sdk.Role{"", "principal", "ADMIN!"} {
		got := sdk.VisibleCapabilities(role)
		assert.Equal(t, student, got)

		for _, known := range sdk.Roles {
			assert.Subset(t, sdk.VisibleCapabilities(known), got, "unknown role must not exceed %s", known)
		}
	}

	assert.Equal(t, student, sdk.VisibleCapabilitiesFor(nil))
}

func TestVisibleCapabilities_ReturnsFreshSlice(t *testing.T) {
	got := sdk.VisibleCapabilities(sdk.RoleAdmin)
	got[0] = sdk.CapabilityMembers

	assert.Equal(t, sdk.CapabilityInfo, sdk.VisibleCapabilities(sdk.RoleAdmin)[0])
}

func TestDefaultCapability(t *testing.T) {
	for _, role := range sdk.Roles {
		assert.Equal(t, sdk.CapabilityInfo, sdk.DefaultCapability(role))
	}
}

func TestCapabilityLookup(t *testing.T) {
	c, ok := sdk.CapabilityFor("mySubjectAnalysis")
	assert.True(t, ok)
	assert.Equal(t, sdk.CapabilityMySubjectAnalysis, c)
	assert.Equal(t, "profile.mySubjectAnalysis", c.LabelKey())

	_, ok = sdk.CapabilityFor("settings")
	assert.False(t, ok)
	assert.Empty(t, sdk.Capability("settings").LabelKey())

	assert.Len(t, sdk.AllCapabilities(), 9)
}
