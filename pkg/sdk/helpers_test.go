package sdk_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/terraconstructs/cohort/pkg/sdk"
)

var testSigningKey = []byte("sdk-test-key")

// mintCredential signs claims with a throwaway key. The client never verifies
// signatures, so any key works.
func mintCredential(t *testing.T, claims jwt.MapClaims) sdk.Credential {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	require.NoError(t, err)
	return sdk.Credential(raw)
}

func credentialFor(t *testing.T, userID int64, username, role string, exp time.Time) sdk.Credential {
	t.Helper()
	return mintCredential(t, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
	})
}
