package entity

import (
	"testing"
)

func TestClaimTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{ClaimStatusPendingApproval, ClaimStatusApproved, true},
		{ClaimStatusPendingApproval, ClaimStatusDenied, true},
		{ClaimStatusPendingApproval, ClaimStatusInRepair, false},
		{ClaimStatusPendingApproval, ClaimStatusClosed, false},
		{ClaimStatusApproved, ClaimStatusInRepair, true},
		{ClaimStatusApproved, ClaimStatusDenied, true},
		{ClaimStatusApproved, ClaimStatusCompleted, false},
		{ClaimStatusInRepair, ClaimStatusCompleted, true},
		{ClaimStatusInRepair, ClaimStatusDenied, true},
		{ClaimStatusInRepair, ClaimStatusApproved, false},
		{ClaimStatusCompleted, ClaimStatusClosed, true},
		{ClaimStatusCompleted, ClaimStatusDenied, true},
		{ClaimStatusCompleted, ClaimStatusInRepair, false},
		{ClaimStatusDenied, ClaimStatusPendingApproval, false},
		{ClaimStatusDenied, ClaimStatusApproved, false},
		{ClaimStatusClosed, ClaimStatusCompleted, false},
	}

	for _, tc := range cases {
		c := &Claim{Status: tc.from}
		if got := c.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestClaimTerminal(t *testing.T) {
	terminal := map[string]bool{
		ClaimStatusPendingApproval: false,
		ClaimStatusApproved:        false,
		ClaimStatusInRepair:        false,
		ClaimStatusCompleted:       false,
		ClaimStatusDenied:          true,
		ClaimStatusClosed:          true,
	}
	for status, want := range terminal {
		c := &Claim{Status: status}
		if got := c.Terminal(); got != want {
			t.Errorf("Terminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestValidIssueType(t *testing.T) {
	for _, issue := range IssueTypes {
		if !ValidIssueType(issue) {
			t.Errorf("Expected %s to be a valid issue type", issue)
		}
	}
	for _, issue := range []string{"", "fire_damage", "Mechanical_Failure"} {
		if ValidIssueType(issue) {
			t.Errorf("Expected %s to be invalid", issue)
		}
	}
}

func TestCoverageKeyForIssue(t *testing.T) {
	key, ok := CoverageKeyForIssue(IssueMechanicalFailure)
	if !ok || key != "mechanicalFailure" {
		t.Errorf("Expected mechanicalFailure, got %q (ok=%v)", key, ok)
	}
	key, ok = CoverageKeyForIssue(IssueFoodSpoilage)
	if !ok || key != "foodSpoilage" {
		t.Errorf("Expected foodSpoilage, got %q (ok=%v)", key, ok)
	}
	// "other" has no coverage mapping
	if _, ok := CoverageKeyForIssue(IssueOther); ok {
		t.Error("Expected no coverage key for 'other'")
	}
}

func TestValidClaimStatus(t *testing.T) {
	for _, s := range []string{ClaimStatusPendingApproval, ClaimStatusApproved, ClaimStatusDenied, ClaimStatusInRepair, ClaimStatusCompleted, ClaimStatusClosed} {
		if !ValidClaimStatus(s) {
			t.Errorf("Expected %s to be a valid claim status", s)
		}
	}
	if ValidClaimStatus("open") {
		t.Error("Expected 'open' to be invalid")
	}
}
