package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret-secret-secret", time.Hour)
	id := bson.NewObjectID()

	token, err := j.Issue(id)
	require.NoError(t, err)
	got, err := j.Parse(token)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret-secret-secret", 30*24*time.Hour)
	issued := time.Now()
	j.now = func() time.Time { return issued }

	token, err := j.Issue(bson.NewObjectID())
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(31 * 24 * time.Hour) }
	_, err = j.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWT("secret-one-secret-one", time.Hour).Issue(bson.NewObjectID())
	require.NoError(t, err)

	_, err = NewJWT("secret-two-secret-two", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_WrongSigningMethod(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: bson.NewObjectID().Hex()})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWT("secret-secret-secret", time.Hour).Parse(s)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_Garbage(t *testing.T) {
	_, err := NewJWT("secret-secret-secret", time.Hour).Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)
	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
}

func TestNewVerificationCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := NewVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}
