package models

import "testing"

func TestPartnershipStatusTerminal(t *testing.T) {
	if PartnershipStatusActive.Terminal() {
		t.Error("active must not be terminal")
	}
	for _, status := range []PartnershipStatus{
		PartnershipStatusCompleted,
		PartnershipStatusEndedEarly,
		PartnershipStatusCancelled,
	} {
		if !status.Terminal() {
			t.Errorf("%s should be terminal", status)
		}
	}
	if PartnershipStatus("junk").Terminal() {
		t.Error("unknown status must not read as terminal")
	}
}

func TestPartnershipParticipants(t *testing.T) {
	p := &Partnership{UserAID: 3, UserBID: 9}

	if !p.HasUser(3) || !p.HasUser(9) {
		t.Error("expected both participants recognized")
	}
	if p.HasUser(4) {
		t.Error("expected outsider rejected")
	}

	if partner, ok := p.PartnerOf(3); !ok || partner != 9 {
		t.Errorf("expected partner 9, got %d (%v)", partner, ok)
	}
	if partner, ok := p.PartnerOf(9); !ok || partner != 3 {
		t.Errorf("expected partner 3, got %d (%v)", partner, ok)
	}
	if _, ok := p.PartnerOf(4); ok {
		t.Error("expected no partner for outsider")
	}
}
