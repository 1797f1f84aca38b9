package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserSerializationOmitsSecrets(t *testing.T) {
	code := "a1b2c3"
	user := User{
		Username:         "amina",
		Email:            "amina@example.com",
		Password:         "$2a$10$abcdefghijklmnopqrstuv",
		VerificationCode: &code,
	}

	raw, err := json.Marshal(&user)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "$2a$10$")
	require.NotContains(t, string(raw), "a1b2c3")
}

func TestUserViewCarriesNoCredentialFields(t *testing.T) {
	user := User{Username: "amina", Email: "amina@example.com", IsVerified: true}
	view := user.View()

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotContains(t, decoded, "password")
	require.NotContains(t, decoded, "verification_code")
	require.Equal(t, "amina", decoded["username"])
}
