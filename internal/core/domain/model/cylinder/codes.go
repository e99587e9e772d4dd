package cylinder

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	IdentityCodePrefix = "CYL-"
	TagCodePrefix      = "TAG-"

	codeRandomBytes   = 8
	secretRandomBytes = 32
)

// Codes are the generated credentials of a cylinder. IdentityCode is printed
// on the body, TagCode on the tamper tag. SecretKey never leaves the service.
type Codes struct {
	IdentityCode string
	TagCode      string
	SecretKey    string
}

// CodeGenerator draws codes from a random source.
type CodeGenerator struct {
	random io.Reader
}

// NewCodeGenerator uses crypto/rand when random is nil.
func NewCodeGenerator(random io.Reader) *CodeGenerator {
	if random == nil {
		random = rand.Reader
	}
	return &CodeGenerator{random: random}
}

// Generate returns a fresh identity code, tag code and secret key.
func (g *CodeGenerator) Generate() (Codes, error) {
	identity, err := g.hex(codeRandomBytes)
	if err != nil {
		return Codes{}, fmt.Errorf("generate identity code: %w", err)
	}
	tag, err := g.hex(codeRandomBytes)
	if err != nil {
		return Codes{}, fmt.Errorf("generate tag code: %w", err)
	}
	secret, err := g.hex(secretRandomBytes)
	if err != nil {
		return Codes{}, fmt.Errorf("generate secret key: %w", err)
	}

	return Codes{
		IdentityCode: IdentityCodePrefix + strings.ToUpper(identity),
		TagCode:      TagCodePrefix + strings.ToUpper(tag),
		SecretKey:    secret,
	}, nil
}

func (g *CodeGenerator) hex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ComputeDigest is hex(SHA-256(serial|identity|tag|secret)). Changing any
// input changes the digest.
func ComputeDigest(serialNumber string, codes Codes) string {
	sum := sha256.Sum256([]byte(strings.Join(
		[]string{serialNumber, codes.IdentityCode, codes.TagCode, codes.SecretKey}, "|")))
	return hex.EncodeToString(sum[:])
}

// AuthToken is hex(SHA-256(digest|unix-nanos)), handed out once at registration.
func AuthToken(digest string, issuedAt time.Time) string {
	sum := sha256.Sum256([]byte(digest + "|" + strconv.FormatInt(issuedAt.UnixNano(), 10)))
	return hex.EncodeToString(sum[:])
}
