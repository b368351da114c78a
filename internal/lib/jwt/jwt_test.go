package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssuer_IssueVerify(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	token, err := issuer.Issue("ABC123", "user-1", "Ann")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Claims{PollID: "ABC123", UserID: "user-1", Name: "Ann"}, claims)
}

func TestIssuer_ClaimsLayout(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	issuedAt := time.Now()

	token, err := issuer.Issue("ABC123", "user-1", "Ann")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)

	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "ABC123", claims["pollID"])
	assert.Equal(t, "Ann", claims["name"])

	const deltaSeconds = 1
	assert.InDelta(t, issuedAt.Add(time.Hour).Unix(), claims["exp"].(float64), deltaSeconds)
}

func TestIssuer_Expired(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	token, err := issuer.Issue("ABC123", "user-1", "Ann")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_WrongSecret(t *testing.T) {
	token, err := NewIssuer("other-secret", time.Hour).Issue("ABC123", "user-1", "Ann")
	require.NoError(t, err)

	_, err = NewIssuer(testSecret, time.Hour).Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Garbage(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestIssuer_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":    "user-1",
		"pollID": "ABC123",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer(testSecret, time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
