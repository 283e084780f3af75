package password

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = 10
	MinLength   = 6
	// MaxLength is the bcrypt input limit.
	MaxLength = 72
)

var ErrWeakPassword = errors.New("weak password")

type LegacyScheme string

const (
	LegacySaltedSha256 LegacyScheme = "sha256+salt"
	LegacySha256       LegacyScheme = "sha256"
	LegacyMd5          LegacyScheme = "md5"
)

// DefaultLegacySchemes is the fallback order tried after bcrypt fails.
var DefaultLegacySchemes = []LegacyScheme{LegacySaltedSha256, LegacySha256, LegacyMd5}

type Hasher struct {
	cost          int
	legacySalt    string
	legacySchemes []LegacyScheme
}

func NewHasher(cost int, legacySalt string, schemes ...LegacyScheme) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	if len(schemes) == 0 {
		schemes = DefaultLegacySchemes
	}
	return &Hasher{
		cost:          cost,
		legacySalt:    legacySalt,
		legacySchemes: schemes,
	}
}

//------------------------------------------
//------------------------------------------

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *Hasher) Verify(password string, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

type MigrationResult struct {
	IsValid     bool
	NeedsUpdate bool
	NewHash     string
	Scheme      LegacyScheme
}

// VerifyWithMigration checks the password against the stored bcrypt hash and
// falls back to the legacy digests. A legacy match comes back with
// NeedsUpdate and a fresh bcrypt hash the caller must persist.
func (h *Hasher) VerifyWithMigration(password string, storedPassword string) (MigrationResult, error) {
	if storedPassword == "" {
		return MigrationResult{}, nil
	}
	if h.Verify(password, storedPassword) {
		return MigrationResult{IsValid: true}, nil
	}

	stored := strings.ToLower(strings.TrimSpace(storedPassword))
	for _, scheme := range h.legacySchemes {
		digest := h.LegacyDigest(scheme, password)
		if digest == "" || subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) != 1 {
			continue
		}
		newHash, err := h.Hash(password)
		if err != nil {
			return MigrationResult{}, err
		}
		return MigrationResult{IsValid: true, NeedsUpdate: true, NewHash: newHash, Scheme: scheme}, nil
	}

	return MigrationResult{}, nil
}

func (h *Hasher) LegacyDigest(scheme LegacyScheme, password string) string {
	switch scheme {
	case LegacySaltedSha256:
		sum := sha256.Sum256([]byte(password + h.legacySalt))
		return hex.EncodeToString(sum[:])
	case LegacySha256:
		sum := sha256.Sum256([]byte(password))
		return hex.EncodeToString(sum[:])
	case LegacyMd5:
		sum := md5.Sum([]byte(password))
		return hex.EncodeToString(sum[:])
	}
	return ""
}

//------------------------------------------
//------------------------------------------

// ValidateStrength returns the list of unmet rules; an empty list means valid.
func ValidateStrength(password string) []string {
	problems := make([]string, 0)
	if len(password) < MinLength {
		problems = append(problems, "password must be at least 6 characters long")
	}
	if len(password) > MaxLength {
		problems = append(problems, "password must be at most 72 bytes long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		problems = append(problems, "password must contain an uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "password must contain a lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "password must contain a digit")
	}
	return problems
}

const randomCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

func GenerateRandom(length int) (string, error) {
	if length <= 0 {
		length = 12
	}
	max := big.NewInt(int64(len(randomCharset)))
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(randomCharset[n.Int64()])
	}
	return sb.String(), nil
}
