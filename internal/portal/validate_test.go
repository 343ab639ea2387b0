package portal_test

import (
	"errors"
	"testing"

	"github.com/frontiertower/portal-backend/internal/portal"
)

func validRequest() portal.AuthRequest {
	return portal.AuthRequest{
		Role:    portal.RoleMember,
		Email:   "a@b.com",
		Name:    "Jane Doe",
		MAC:     "AA-BB-CC-DD-EE-FF",
		FloorID: 3,
		Consent: true,
	}
}

func TestValidate_Valid(t *testing.T) {
	tests := []struct {
		name string
		req  portal.AuthRequest
	}{
		{"member", validRequest()},
		{"guest", portal.AuthRequest{
			Role: portal.RoleGuest, Email: "g@example.com", Name: "Guest Person",
			MAC: "aabbccddeeff", Consent: true,
		}},
		{"event", portal.AuthRequest{
			Role: portal.RoleEvent, Email: "e@example.com", Name: "Event Goer",
			MAC: "aabbccddeeff", EventID: 7, Consent: true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := portal.Validate(tt.req); err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestValidate_SingleBrokenField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*portal.AuthRequest)
		reason string
	}{
		{"invalid role", func(r *portal.AuthRequest) { r.Role = "visitor" }, "please select a valid role"},
		{"empty email", func(r *portal.AuthRequest) { r.Email = "" }, "please provide a valid email address"},
		{"bad email", func(r *portal.AuthRequest) { r.Email = "not-an-email" }, "please provide a valid email address"},
		{"empty name", func(r *portal.AuthRequest) { r.Name = "" }, "please provide your full name"},
		{"one char name", func(r *portal.AuthRequest) { r.Name = "J" }, "please provide your full name"},
		{"member without floor", func(r *portal.AuthRequest) { r.FloorID = 0 }, "please select your floor"},
		{"no consent", func(r *portal.AuthRequest) { r.Consent = false }, "please accept the terms of use"},
		{"missing mac", func(r *portal.AuthRequest) { r.MAC = "" }, "device MAC address not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := portal.Validate(req)
			var vErr *portal.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(vErr.Reasons) != 1 {
				t.Fatalf("expected exactly 1 reason, got %d: %v", len(vErr.Reasons), vErr.Reasons)
			}
			if vErr.Reasons[0] != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, vErr.Reasons[0])
			}
		})
	}
}

func TestValidate_EventWithoutEventRef(t *testing.T) {
	req := portal.AuthRequest{
		Role: portal.RoleEvent, Email: "e@example.com", Name: "Event Goer",
		MAC: "aabbccddeeff", Consent: true,
	}

	_, err := portal.Validate(req)
	var vErr *portal.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Reasons) != 1 || vErr.Reasons[0] != "please select the event you are attending" {
		t.Errorf("unexpected reasons: %v", vErr.Reasons)
	}
}

func TestValidate_AccumulatesAllFailures(t *testing.T) {
	_, err := portal.Validate(portal.AuthRequest{})

	var vErr *portal.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// role, email, name, consent, mac all fail for the zero request.
	if len(vErr.Reasons) != 5 {
		t.Errorf("expected 5 reasons, got %d: %v", len(vErr.Reasons), vErr.Reasons)
	}
}

func TestValidate_TrimsFields(t *testing.T) {
	req := validRequest()
	req.Email = "  a@b.com  "
	req.Name = "  Jane Doe  "

	got, err := portal.Validate(req)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.Email != "a@b.com" {
		t.Errorf("expected trimmed email, got %q", got.Email)
	}
	if got.Name != "Jane Doe" {
		t.Errorf("expected trimmed name, got %q", got.Name)
	}
}
