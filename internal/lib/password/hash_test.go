package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "обычный пароль", password: "password123"},
		{name: "пароль со спецсимволами", password: "p@ssw0rd!@#$%^&*()"},
		{name: "короткий пароль", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, CompareHash(hash, tt.password))
		})
	}
}

func TestCompareHash_RejectsWrongPassword(t *testing.T) {
	hash, err := GetHash("correct_password")
	require.NoError(t, err)

	assert.NoError(t, CompareHash(hash, "correct_password"))
	assert.Error(t, CompareHash(hash, "wrong_password"))
	assert.Error(t, CompareHash(hash, ""))
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "correct_password"))
}

func TestGetHash_Salted(t *testing.T) {
	first, err := GetHash("same_password")
	require.NoError(t, err)
	second, err := GetHash("same_password")
	require.NoError(t, err)

	// bcrypt солит каждый хэш, повторное хэширование даёт другой результат
	assert.NotEqual(t, first, second)
}
