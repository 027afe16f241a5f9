package domain

import "testing"

func TestResolverSet(t *testing.T) {
	academic := ResolverSet(ComplaintAcademic)
	if len(academic) != 3 || academic[0] != RoleAcademicAffairs {
		t.Fatalf("academic resolver set: %v", academic)
	}
	general := ResolverSet(ComplaintGeneral)
	if len(general) != 3 || general[0] != RolePresidentAdmin {
		t.Fatalf("general resolver set: %v", general)
	}

	// The admin tier appears in both sets; the specialised roles never cross.
	for _, set := range [][]Role{academic, general} {
		if !containsRole(set, RoleAdmin) || !containsRole(set, RoleSuperAdmin) {
			t.Fatalf("admin tier missing from %v", set)
		}
	}
	if containsRole(academic, RolePresidentAdmin) {
		t.Fatalf("president admin must not resolve academic complaints")
	}
	if containsRole(general, RoleAcademicAffairs) {
		t.Fatalf("academic affairs must not resolve general complaints")
	}
}

func TestDeriveResolutionType(t *testing.T) {
	cases := []struct {
		role Role
		want ResolutionType
	}{
		{RoleAcademicAffairs, ResolvedByAcademicAffairs},
		{RolePresidentAdmin, ResolvedByPresidentAdmin},
		{RoleAdmin, ResolvedByAdmin},
		{RoleSuperAdmin, ResolvedByAdmin},
	}
	for _, tc := range cases {
		if got := DeriveResolutionType(tc.role); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.role, got, tc.want)
		}
	}
}

func TestComplaintStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to ComplaintStatus
	}{
		{ComplaintSubmitted, ComplaintUnderReview},
		{ComplaintSubmitted, ComplaintResolved},
		{ComplaintSubmitted, ComplaintClosed},
		{ComplaintUnderReview, ComplaintResolved},
		{ComplaintUnderReview, ComplaintClosed},
		{ComplaintResolved, ComplaintClosed},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct {
		from, to ComplaintStatus
	}{
		{ComplaintResolved, ComplaintUnderReview},
		{ComplaintResolved, ComplaintSubmitted},
		{ComplaintUnderReview, ComplaintSubmitted},
		{ComplaintClosed, ComplaintResolved},
		{ComplaintClosed, ComplaintSubmitted},
	}
	for _, tc := range forbidden {
		if tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("%s -> %s must not be allowed", tc.from, tc.to)
		}
	}
}

func TestComplaintCanResolve(t *testing.T) {
	c := &Complaint{
		ComplaintType:   ComplaintAcademic,
		CanBeResolvedBy: ResolverSet(ComplaintAcademic),
	}
	if !c.CanResolve(RoleAcademicAffairs) || !c.CanResolve(RoleSuperAdmin) {
		t.Fatalf("resolver set members should resolve")
	}
	if c.CanResolve(RolePresidentAdmin) || c.CanResolve(RoleStudent) {
		t.Fatalf("non-members must not resolve")
	}
}

func TestComplaintTypeValid(t *testing.T) {
	if !ComplaintGeneral.Valid() || !ComplaintAcademic.Valid() {
		t.Fatalf("known types should be valid")
	}
	if ComplaintType("disciplinary").Valid() {
		t.Fatalf("unknown type should not be valid")
	}
}
