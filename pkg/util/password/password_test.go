package password

import (
	"strings"
	"testing"

	"github.com/hamyarhq/hamyar_backend/config"
)

// testParams keeps the Argon2 cost low so the suite stays fast.
var testParams = Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHashVerifyRoundTrip(t *testing.T) {
	encoded, err := HashWithParams("s3cr3t-passw0rd", testParams)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=") {
		t.Fatalf("hash is not PHC-encoded: %q", encoded)
	}
	if err := Verify(encoded, "s3cr3t-passw0rd"); err != nil {
		t.Fatalf("Verify correct password: %v", err)
	}
	if err := Verify(encoded, "wrong password"); err != ErrMismatch {
		t.Fatalf("Verify wrong password: got %v, want ErrMismatch", err)
	}
}

func TestHashSaltsEveryCall(t *testing.T) {
	a, err := HashWithParams("same input", testParams)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	b, err := HashWithParams("same input", testParams)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password are identical; salt not applied")
	}
}

func TestVerifyUsesStoredParams(t *testing.T) {
	// A hash made under non-default costs must verify without SetDefault.
	odd := testParams
	odd.Iterations = 2
	encoded, err := HashWithParams("portable", odd)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	if err := Verify(encoded, "portable"); err != nil {
		t.Fatalf("Verify with embedded params: %v", err)
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    error
	}{
		{"empty", "", ErrInvalidHash},
		{"not phc", "plain-text-hash", ErrInvalidHash},
		{"wrong algorithm", "$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$a2V5", ErrInvalidHash},
		{"bad version", "$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$a2V5", ErrVersion},
		{"bad costs", "$argon2id$v=19$m=oops$c2FsdA$a2V5", ErrInvalidHash},
		{"bad salt b64", "$argon2id$v=19$m=8192,t=1,p=1$!!!$a2V5", ErrInvalidHash},
		{"bad key b64", "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$!!!", ErrInvalidHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Verify(tt.encoded, "whatever"); err != tt.want {
				t.Fatalf("Verify(%q): got %v, want %v", tt.encoded, err, tt.want)
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	old := active
	defer SetDefault(old)
	SetDefault(testParams)

	current, err := Hash("rotate me")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if NeedsRehash(current) {
		t.Fatal("hash under active params reported as stale")
	}

	weaker := testParams
	weaker.Memory = 4 * 1024
	stale, err := HashWithParams("rotate me", weaker)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	if !NeedsRehash(stale) {
		t.Fatal("hash under weaker params not reported as stale")
	}

	if !NeedsRehash("garbage") {
		t.Fatal("undecodable hash must always need a rehash")
	}
}

func TestFromConfigFallbacks(t *testing.T) {
	if got := FromConfig(config.PasswordConfig{}); got != DefaultParams() {
		t.Fatalf("zero config: got %+v, want defaults", got)
	}

	cfg := config.PasswordConfig{MemoryKiB: 128 * 1024, Iterations: 5}
	got := FromConfig(cfg)
	if got.Memory != 128*1024 || got.Iterations != 5 {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if got.Parallelism != DefaultParams().Parallelism {
		t.Fatalf("unset field lost its default: %+v", got)
	}

	cfg.LowMemoryMode = true
	got = FromConfig(cfg)
	if got.Memory != 32*1024 {
		t.Fatalf("low-memory mode did not cap memory: %+v", got)
	}
	if got.Iterations != 6 {
		t.Fatalf("low-memory mode did not add a pass: %+v", got)
	}
}

func BenchmarkHashDefaultParams(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Hash("benchmark password"); err != nil {
			b.Fatal(err)
		}
	}
}
