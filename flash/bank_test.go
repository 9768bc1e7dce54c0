package flash

import "testing"

func TestValidateBanksOverlap(t *testing.T) {
	banks := []Bank{
		{Index: 0, Location: 0, Size: 512, Bootable: true},
		{Index: 1, Location: 256, Size: 512, Bootable: true},
	}
	if err := ValidateBanks(banks); err == nil {
		t.Fatal("expected overlap error, got nil")
	}
}

func TestValidateBanksZeroSize(t *testing.T) {
	banks := []Bank{{Index: 0, Location: 0, Size: 0, Bootable: true}}
	if err := ValidateBanks(banks); err == nil {
		t.Fatal("expected zero-size error, got nil")
	}
}

func TestValidateBanksTwoGolden(t *testing.T) {
	banks := []Bank{
		{Index: 0, Location: 0, Size: 512, IsGolden: true},
		{Index: 1, Location: 512, Size: 512, IsGolden: true},
	}
	if err := ValidateBanks(banks); err == nil {
		t.Fatal("expected two-golden error, got nil")
	}
}

func TestValidateBanksOK(t *testing.T) {
	banks := []Bank{
		{Index: 0, Location: 0, Size: 512, Bootable: true},
		{Index: 1, Location: 512, Size: 512, Bootable: true, IsGolden: true},
	}
	if err := ValidateBanks(banks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
