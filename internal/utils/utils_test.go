package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "admin@example.com", RoleAdmin, 30)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}
	if d := time.Until(tok.Exp); d < 29*time.Minute || d > 30*time.Minute {
		t.Errorf("expiry %v from now, want about 30m", d)
	}

	cl, err := ParseAccessToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if cl.Subject != "admin@example.com" {
		t.Errorf("expected subject admin@example.com, got %q", cl.Subject)
	}
	if cl.Role != RoleAdmin {
		t.Errorf("expected role %s, got %q", RoleAdmin, cl.Role)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	expired, _ := NewAccessTokenAt(testSecret, "a@example.com", RoleAdmin, 30, time.Now().Add(-31*time.Minute))
	otherKey, _ := NewAccessToken("other-secret", "a@example.com", RoleAdmin, 30)
	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@example.com",
	}).SignedString([]byte(testSecret))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "a@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name string
		raw  string
	}{
		{"expired", expired.Token},
		{"wrong secret", otherKey.Token},
		{"missing subject", noSub},
		{"missing expiry", noExp},
		{"other algorithm", hs512},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAccessToken(testSecret, tt.raw); err == nil {
				t.Errorf("expected %s token to be rejected", tt.name)
			}
		})
	}
}

func TestAccessTokenStillValidJustBeforeExpiry(t *testing.T) {
	tok, _ := NewAccessTokenAt(testSecret, "a@example.com", RoleAdmin, 30, time.Now().Add(-29*time.Minute))
	if _, err := ParseAccessToken(testSecret, tok.Token); err != nil {
		t.Fatalf("token issued 29 minutes ago should be valid: %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash should not equal the plain password")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("expected matching password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}

	again, _ := HashPassword("s3cret", 4)
	if again == hash {
		t.Error("expected salted hashes to differ")
	}
}

func TestHashPasswordCostFallback(t *testing.T) {
	for _, cost := range []int{0, 99} {
		hash, err := HashPassword("s3cret", cost)
		if err != nil {
			t.Fatalf("HashPassword(cost=%d) failed: %v", cost, err)
		}
		if got, _ := bcrypt.Cost([]byte(hash)); got != bcrypt.DefaultCost {
			t.Errorf("cost %d: expected fallback to %d, got %d", cost, bcrypt.DefaultCost, got)
		}
	}
	if VerifyPassword("not-a-hash", "s3cret") {
		t.Error("malformed hash must not verify")
	}
}
