package model

import "testing"

func TestParseCustomerClass(t *testing.T) {
	tests := []struct {
		in      string
		want    CustomerClass
		wantErr bool
	}{
		{"private", Private, false},
		{" Business ", Business, false},
		{"PRIVATE", Private, false},
		{"corporate", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCustomerClass(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCustomerClass(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCustomerClass(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"withdraw", Withdraw, false},
		{"Deposit", Deposit, false},
		{"transfer", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	if Private.String() != "private" || Business.String() != "business" {
		t.Errorf("unexpected class names %q %q", Private, Business)
	}
	if Withdraw.String() != "withdraw" || Deposit.String() != "deposit" {
		t.Errorf("unexpected kind names %q %q", Withdraw, Deposit)
	}
	if got := CustomerClass(9).String(); got != "CustomerClass(9)" {
		t.Errorf("unexpected name for unknown class: %q", got)
	}
	if len(CustomerClasses()) != 2 {
		t.Errorf("expected two customer classes")
	}
}
