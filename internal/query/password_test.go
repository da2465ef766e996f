package query

import (
	"golang.org/x/crypto/bcrypt"
	"testing"
)

func TestGenerateBcryptHash_VerifiesAgainstSamePassword(t *testing.T) {
	hash, err := GenerateBcryptHash("correct horse battery staple")
	if err != nil {
		t.Fatalf("GenerateBcryptHash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse battery staple")); err != nil {
		t.Errorf("hash does not verify against its source password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong password")); err == nil {
		t.Error("hash verified against the wrong password")
	}
}
