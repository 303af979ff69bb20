package security

import (
	"strings"
	"testing"

	"github.com/lumine-jewelry/lumine-backend/pkg/config"
)

func fastParams() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("correct horse battery staple", fastParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	ok, err := VerifyPassword("correct horse battery staple", encoded)
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong password", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same password", fastParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("same password", fastParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("", fastParams()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdA$aGFzaA",
	} {
		if _, err := VerifyPassword("whatever", encoded); err == nil {
			t.Errorf("expected error for %q", encoded)
		}
	}
}
