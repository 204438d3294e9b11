package validate

import "testing"

func TestID(t *testing.T) {
	cases := map[string]bool{"1": true, " 42 ": true, "0": false, "-3": false, "abc": false, "": false}
	for in, want := range cases {
		if _, ok := ID(in); ok != want {
			t.Errorf("ID(%q) ok=%v, want %v", in, ok, want)
		}
	}
}

func TestPassword(t *testing.T) {
	if !Password("Passw0rd!") {
		t.Error("expected strong password to pass")
	}
	for _, p := range []string{"short1!", "alllowercase1!", "NoDigits!!", "NoSymbol123"} {
		if Password(p) {
			t.Errorf("expected %q to fail", p)
		}
	}
}

func TestEmailAndUsername(t *testing.T) {
	if _, ok := Email("jane@example.com"); !ok {
		t.Error("valid email rejected")
	}
	if _, ok := Email("jane@"); ok {
		t.Error("invalid email accepted")
	}
	if _, ok := Username("janedoe"); !ok {
		t.Error("valid username rejected")
	}
	if _, ok := Username("a b"); ok {
		t.Error("username with space accepted")
	}
}
