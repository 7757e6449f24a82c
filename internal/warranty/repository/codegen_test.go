package repository

import (
	"testing"
)

func TestNextFromCodes(t *testing.T) {
	cases := []struct {
		name     string
		codes    []string
		template string
		want     string
	}{
		{"warranty sequence", []string{"WRN-10001", "WRN-10005", "WRN-10003"}, WarrantyCodeTemplate, "WRN-10006"},
		{"claim sequence", []string{"CLM-20001"}, ClaimCodeTemplate, "CLM-20002"},
		{"empty set seeds from template", nil, WarrantyCodeTemplate, "WRN-10002"},
		{"zero padding preserved", []string{"CUST-0009"}, CustomerCodeTemplate, "CUST-0010"},
		{"unparsable suffixes ignored", []string{"PRD-001", "PRD-legacy", "PRD-002"}, ProductCodeTemplate, "PRD-003"},
		{"repair order sequence", []string{"RPR-30001", "RPR-30002"}, RepairOrderCodeTemplate, "RPR-30003"},
	}
	for _, tc := range cases {
		if got := nextFromCodes(tc.codes, tc.template); got != tc.want {
			t.Errorf("%s: nextFromCodes = %q, want %q", tc.name, got, tc.want)
		}
	}
}
