package models

import "testing"

func TestReportStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ReportStatus
		to      ReportStatus
		allowed bool
	}{
		{ReportStatusPending, ReportStatusInvestigating, true},
		{ReportStatusPending, ReportStatusDismissed, true},
		{ReportStatusPending, ReportStatusResolved, false},
		{ReportStatusPending, ReportStatusPending, false},
		{ReportStatusInvestigating, ReportStatusResolved, true},
		{ReportStatusInvestigating, ReportStatusDismissed, true},
		{ReportStatusInvestigating, ReportStatusPending, false},
		{ReportStatusResolved, ReportStatusDismissed, false},
		{ReportStatusResolved, ReportStatusInvestigating, false},
		{ReportStatusDismissed, ReportStatusResolved, false},
		{ReportStatusDismissed, ReportStatusPending, false},
		{ReportStatus("junk"), ReportStatusInvestigating, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestReportStatusTerminal(t *testing.T) {
	for status, terminal := range map[ReportStatus]bool{
		ReportStatusPending:       false,
		ReportStatusInvestigating: false,
		ReportStatusResolved:      true,
		ReportStatusDismissed:     true,
	} {
		if got := status.Terminal(); got != terminal {
			t.Errorf("%s.Terminal(): expected %v, got %v", status, terminal, got)
		}
	}

	// Unknown statuses are not terminal, they are invalid
	if ReportStatus("junk").Terminal() {
		t.Error("unknown status must not read as terminal")
	}
	if ReportStatus("junk").Valid() {
		t.Error("unknown status must not read as valid")
	}
}
