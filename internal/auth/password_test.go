package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService_HashProducesSaltedOutput(t *testing.T) {
	ps := NewPasswordService()

	hash1, err := ps.Hash("same-password")
	require.NoError(t, err)
	hash2, err := ps.Hash("same-password")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash1, "$argon2id$"))
	assert.NotEqual(t, hash1, hash2, "two hashes of one password must differ (random salt)")
}

func TestPasswordService_VerifyRoundTrip(t *testing.T) {
	ps := NewPasswordService()

	tests := []struct {
		name     string
		password string
	}{
		{"simple alphanumeric", "pw123456"},
		{"special characters", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"whitespace", "  leading and trailing  "},
		{"long input", strings.Repeat("correct-horse-", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := ps.Hash(tt.password)
			require.NoError(t, err)
			assert.True(t, ps.Verify(tt.password, hash))
		})
	}
}

func TestPasswordService_VerifyWrongPassword(t *testing.T) {
	ps := NewPasswordService()

	hash, err := ps.Hash("the-real-password")
	require.NoError(t, err)

	assert.False(t, ps.Verify("the-wrong-password", hash))
	assert.False(t, ps.Verify("", hash))
}

func TestPasswordService_NoTruncation(t *testing.T) {
	ps := NewPasswordService()

	// bcrypt silently truncates at 72 bytes; argon2id must not. A password
	// sharing the first 72 bytes with the hashed one must still fail.
	long := strings.Repeat("a", 80)
	hash, err := ps.Hash(long)
	require.NoError(t, err)

	assert.False(t, ps.Verify(strings.Repeat("a", 72), hash))
	assert.True(t, ps.Verify(long, hash))
}

func TestPasswordService_VerifyMalformedHash(t *testing.T) {
	ps := NewPasswordService()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"bcrypt hash", "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"},
		{"wrong variant", "$argon2i$v=19$m=65536,t=3,p=4$c29tZXNhbHQ$c29tZWtleQ"},
		{"bad version", "$argon2id$v=18$m=65536,t=3,p=4$c29tZXNhbHQ$c29tZWtleQ"},
		{"bad params", "$argon2id$v=19$m=abc,t=3,p=4$c29tZXNhbHQ$c29tZWtleQ"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=4$!!!$c29tZWtleQ"},
		{"missing key", "$argon2id$v=19$m=65536,t=3,p=4$c29tZXNhbHQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ps.Verify("password", tt.encoded))
		})
	}
}
