package sdk

// Capability is a dashboard tab gated by role.
type Capability string

const (
	CapabilityInfo              Capability = "info"
	CapabilityAnalysis          Capability = "analysis"
	CapabilityMyAnalysis        Capability = "myAnalysis"
	CapabilityStudentAnalysis   Capability = "studentAnalysis"
	CapabilitySubjectAnalysis   Capability = "subjectAnalysis"
	CapabilityMySubjectAnalysis Capability = "mySubjectAnalysis"
	CapabilitySubscription      Capability = "subscription"
	CapabilityMembers           Capability = "members"
	CapabilityInvitations       Capability = "invitations"
)

type capabilityEntry struct {
	capability Capability
	labelKey   string
	roles      []Role
}

// capabilityTable is in display order.
var capabilityTable = []capabilityEntry{
	{CapabilityInfo, "profile.basicInfo", []Role{RoleStudent, RoleTeacher, RoleAdmin, RoleHead}},
	{CapabilityAnalysis, "profile.generalAnalysis", []Role{RoleAdmin, RoleHead}},
	{CapabilityMyAnalysis, "profile.myAnalysis", []Role{RoleTeacher}},
	{CapabilityStudentAnalysis, "profile.analysis", []Role{RoleStudent}},
	{CapabilitySubjectAnalysis, "profile.subjectAnalysis", []Role{RoleAdmin, RoleHead}},
	{CapabilityMySubjectAnalysis, "profile.mySubjectAnalysis", []Role{RoleTeacher}},
	{CapabilitySubscription, "profile.subscription", []Role{RoleAdmin, RoleHead}},
	{CapabilityMembers, "profile.members", []Role{RoleAdmin, RoleHead}},
	{CapabilityInvitations, "profile.invitations", []Role{RoleAdmin, RoleHead}},
}

// LabelKey returns the translation key of the tab label.
func (c Capability) LabelKey() string {
	for _, entry := range capabilityTable {
		if entry.capability == c {
			return entry.labelKey
		}
	}
	return ""
}

// CapabilityFor looks up a capability by its tag.
func CapabilityFor(tag string) (Capability, bool) {
	for _, entry := range capabilityTable {
		if string(entry.capability) == tag {
			return entry.capability, true
		}
	}
	return "", false
}

// AllCapabilities returns every capability in display order.
func AllCapabilities() []Capability {
	out := make([]Capability, 0, len(capabilityTable))
	for _, entry := range capabilityTable {
		out = append(out, entry.capability)
	}
	return out
}

// VisibleCapabilities returns the tabs role may see, in display order. Roles
// outside the known four get the student set.
func VisibleCapabilities(role Role) []Capability {
	if _, ok := ParseRole(string(role)); !ok {
		role = RoleStudent
	}
	out := make([]Capability, 0, len(capabilityTable))
	for _, entry := range capabilityTable {
		if hasRole(entry.roles, role) {
			out = append(out, entry.capability)
		}
	}
	return out
}

// VisibleCapabilitiesFor is VisibleCapabilities for an optional identity.
func VisibleCapabilitiesFor(identity *Identity) []Capability {
	if identity == nil {
		return VisibleCapabilities(RoleStudent)
	}
	return VisibleCapabilities(identity.Role)
}

// DefaultCapability is the tab selected when the dashboard opens.
func DefaultCapability(role Role) Capability {
	return VisibleCapabilities(role)[0]
}

func hasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
