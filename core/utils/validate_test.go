package utils

import "testing"

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"bob", "Bob42", "a"} {
		if err := ValidateUsername(ok); err != nil {
			t.Fatalf("expected %q valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "bob!", "bob smith", "bob.smith", "x'); DROP TABLE user;--"} {
		if err := ValidateUsername(bad); err == nil {
			t.Fatalf("expected %q invalid", bad)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("bob@example.com"); err != nil {
		t.Fatalf("expected valid email: %v", err)
	}
	for _, bad := range []string{"", "bob", "bob@", "@example.com", "bob example@x.y"} {
		if err := ValidateEmail(bad); err == nil {
			t.Fatalf("expected %q invalid", bad)
		}
	}
}

func TestValidateModuleName(t *testing.T) {
	for _, ok := range []string{"box", "dashboard", "game-server", "mod_2"} {
		if err := ValidateModuleName(ok); err != nil {
			t.Fatalf("expected %q valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "Box", "box/add", "../etc"} {
		if err := ValidateModuleName(bad); err == nil {
			t.Fatalf("expected %q invalid", bad)
		}
	}
}
