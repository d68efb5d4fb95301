package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if hash == password {
		t.Fatal("Hash must not equal the plaintext password")
	}

	if err := CheckPassword(hash, password); err != nil {
		t.Errorf("Expected matching password to verify, got %v", err)
	}

	if err := CheckPassword(hash, "wrong password"); err == nil {
		t.Error("Expected error for wrong password")
	}
}
