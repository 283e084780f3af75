package util

import (
	"testing"
	"time"

	"series_guide/configs"
	"series_guide/model"

	"github.com/golang-jwt/jwt/v5"
)

func setSecret(t *testing.T, s string) {
	t.Helper()
	prev := configs.GetConfigs()
	c := prev
	c.JwtSecret = s
	configs.SetConfigs(c)
	t.Cleanup(func() { configs.SetConfigs(prev) })
}

func TestAdminTokenRoundTrip(t *testing.T) {
	setSecret(t, "test-secret")

	token, expiresAt, err := CreateAdminToken("64b000000000000000000001", "root")
	if err != nil {
		t.Fatalf("CreateAdminToken() error = %v", err)
	}
	if time.Until(expiresAt) < 6*24*time.Hour {
		t.Errorf("expiresAt = %v, want about 7 days ahead", expiresAt)
	}

	claims, err := VerifyAdminToken(token)
	if err != nil {
		t.Fatalf("VerifyAdminToken() error = %v", err)
	}
	if claims.UserId != "64b000000000000000000001" || claims.Username != "root" || claims.Role != model.AdminRole {
		t.Errorf("claims = %+v", claims)
	}
}

func TestPublicUserTokenRoundTrip(t *testing.T) {
	setSecret(t, "test-secret")

	token, _, err := CreatePublicUserToken("64b000000000000000000002", "ana", "ana@example.com")
	if err != nil {
		t.Fatalf("CreatePublicUserToken() error = %v", err)
	}
	claims, err := VerifyPublicUserToken(token)
	if err != nil {
		t.Fatalf("VerifyPublicUserToken() error = %v", err)
	}
	if claims.Id != "64b000000000000000000002" || claims.Email != "ana@example.com" || claims.Role != model.UserRoleName {
		t.Errorf("claims = %+v", claims)
	}
}

func TestCrossTrackTokensRejected(t *testing.T) {
	setSecret(t, "test-secret")

	adminToken, _, _ := CreateAdminToken("64b000000000000000000001", "root")
	publicToken, _, _ := CreatePublicUserToken("64b000000000000000000002", "ana", "ana@example.com")

	if _, err := VerifyPublicUserToken(adminToken); err == nil {
		t.Error("admin token accepted as a public session")
	}
	if _, err := VerifyAdminToken(publicToken); err == nil {
		t.Error("public token accepted as an admin session")
	}
}

func TestForgedRoleRejected(t *testing.T) {
	setSecret(t, "test-secret")

	// a public-shaped token carrying the admin role
	claims := PublicUserJwtClaims{
		Id:       "64b000000000000000000002",
		Username: "ana",
		Role:     model.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyPublicUserToken(token); err == nil {
		t.Error("token with admin role accepted by public verifier")
	}
}

func TestTokenRejectedWithOtherSecret(t *testing.T) {
	setSecret(t, "secret-one")
	token, _, _ := CreatePublicUserToken("64b000000000000000000002", "ana", "ana@example.com")

	setSecret(t, "secret-two")
	if _, err := VerifyPublicUserToken(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestExpiredAndUnboundedTokensRejected(t *testing.T) {
	setSecret(t, "test-secret")

	expired := AdminJwtClaims{
		UserId: "64b000000000000000000001",
		Role:   model.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte("test-secret"))
	if _, err := VerifyAdminToken(token); err == nil {
		t.Error("expired token accepted")
	}

	noExpiry := AdminJwtClaims{UserId: "64b000000000000000000001", Role: model.AdminRole}
	token, _ = jwt.NewWithClaims(jwt.SigningMethodHS256, noExpiry).SignedString([]byte("test-secret"))
	if _, err := VerifyAdminToken(token); err == nil {
		t.Error("token without expiry accepted")
	}
}
