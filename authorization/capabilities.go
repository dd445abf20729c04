package authorization

// Capability is a single atomic permission a role can carry
type Capability string

const (
	// CapSendInvitations allows issuing new invitations
	CapSendInvitations Capability = "send_invitations"
	// CapManageInvitations allows cancel, resend and expiry changes
	CapManageInvitations Capability = "manage_invitations"
	// CapViewAllInvitations widens the invitation list beyond "sent by me"
	CapViewAllInvitations Capability = "view_all_invitations"
	// CapManageProjects allows project and task administration
	CapManageProjects Capability = "manage_projects"
	// CapManageFamilies allows family administration and role grants
	CapManageFamilies Capability = "manage_families"
)

// All enumerates every known capability
func All() []Capability {
	return []Capability{
		CapSendInvitations,
		CapManageInvitations,
		CapViewAllInvitations,
		CapManageProjects,
		CapManageFamilies,
	}
}

// CapabilitySet is the effective set of capabilities a user holds
// within one family, resolved once per request
type CapabilitySet struct {
	role string
	caps map[Capability]struct{}
}

// NewCapabilitySet builds a resolved set for a role
func NewCapabilitySet(role string, caps []string) *CapabilitySet {
	return newCapabilitySet(role, caps)
}

func newCapabilitySet(role string, caps []string) *CapabilitySet {
	set := &CapabilitySet{
		role: role,
		caps: make(map[Capability]struct{}, len(caps)),
	}
	for _, c := range caps {
		set.caps[Capability(c)] = struct{}{}
	}
	return set
}

// Role is the name of the role the set was resolved from
func (c *CapabilitySet) Role() string {
	return c.role
}

// Can answers whether the set contains the capability
func (c *CapabilitySet) Can(capability Capability) bool {
	_, ok := c.caps[capability]
	return ok
}

// List returns the capabilities as plain strings
func (c *CapabilitySet) List() []string {
	list := make([]string, 0, len(c.caps))
	for capability := range c.caps {
		list = append(list, string(capability))
	}
	return list
}
