package portal

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks a submission against the role-specific rules. All rules
// are independent and all are checked, so the returned ValidationError
// lists every problem rather than just the first one. On success the
// returned request has its email and name trimmed; the MAC is left for
// NormalizeMAC.
func Validate(req AuthRequest) (AuthRequest, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.MAC = strings.TrimSpace(req.MAC)

	var reasons []string

	if !req.Role.Valid() {
		reasons = append(reasons, "please select a valid role")
	}
	if req.Email == "" || !emailPattern.MatchString(req.Email) {
		reasons = append(reasons, "please provide a valid email address")
	}
	if len(req.Name) < 2 {
		reasons = append(reasons, "please provide your full name")
	}
	if req.Role == RoleMember && req.FloorID <= 0 {
		reasons = append(reasons, "please select your floor")
	}
	if req.Role == RoleEvent && req.EventID <= 0 {
		reasons = append(reasons, "please select the event you are attending")
	}
	if !req.Consent {
		reasons = append(reasons, "please accept the terms of use")
	}
	if req.MAC == "" {
		reasons = append(reasons, "device MAC address not found")
	}

	if len(reasons) > 0 {
		return AuthRequest{}, &ValidationError{Reasons: reasons}
	}
	return req, nil
}
