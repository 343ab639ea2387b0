// Package portal implements the captive-portal authorization workflow:
// validating a submission, recording the requester, and driving the
// wireless-controller session that grants the device network access.
package portal

// Role identifies which kind of requester is asking for access.
type Role string

const (
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
	RoleEvent  Role = "event"
)

// Valid reports whether the role is one of the known requester kinds.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleGuest, RoleEvent:
		return true
	}
	return false
}

// AuthRequest is one portal form submission. It lives only for the
// duration of the request that carries it.
type AuthRequest struct {
	Role        Role
	Email       string
	Name        string
	MAC         string // device hardware address, any textual form
	IP          string // device IP as reported by the controller redirect
	FloorID     int64  // required when Role is member
	EventID     int64  // required when Role is event
	Consent     bool
	RedirectURL string // originally requested destination, may be empty
}

// Outcome is the final result of one authorization attempt.
type Outcome struct {
	Success     bool
	Message     string
	RedirectURL string
}
