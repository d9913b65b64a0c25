package models

import "testing"

func TestInvoiceStatusChargeable(t *testing.T) {
	tests := []struct {
		status InvoiceStatus
		want   bool
	}{
		{StatusDraft, true},
		{StatusSent, true},
		{StatusOverdue, true},
		{StatusPaid, false},
		{StatusCancelled, false},
		{InvoiceStatus("bogus"), false},
	}
	for _, tt := range tests {
		if got := tt.status.Chargeable(); got != tt.want {
			t.Fatalf("Chargeable(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestInvoiceStatusValid(t *testing.T) {
	for _, s := range []InvoiceStatus{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled} {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if InvoiceStatus("refunded").Valid() {
		t.Fatalf("unknown status must not be valid")
	}
}
