package relay

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	req := require.New(t)
	mgr := NewJWTManager("test-secret", time.Hour)

	token, err := mgr.Generate("u1")
	req.NoError(err)

	claims, err := mgr.Verify(token)
	req.NoError(err)
	req.Equal("u1", claims.Subject)
}

func TestJWTManager_Verify_WrongSecret(t *testing.T) {
	req := require.New(t)
	mgr := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := mgr.Generate("u1")
	req.NoError(err)

	_, err = other.Verify(token)
	req.Error(err)
}

func TestJWTManager_Verify_Expired(t *testing.T) {
	req := require.New(t)
	mgr := NewJWTManager("test-secret", -time.Minute)

	token, err := mgr.Generate("u1")
	req.NoError(err)

	_, err = mgr.Verify(token)
	req.Error(err)
}

func TestJWTManager_ChannelGrant(t *testing.T) {
	req := require.New(t)
	mgr := NewJWTManager("test-secret", time.Hour)

	grant, err := mgr.GenerateChannel("u1", "room-1234")
	req.NoError(err)

	claims, err := mgr.Verify(grant)
	req.NoError(err)
	req.Equal("u1", claims.Subject)
	req.Contains(claims.Audience, "room-1234")
}

func TestExtractTokenFromHeader(t *testing.T) {
	req := require.New(t)

	r, _ := http.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	token, err := ExtractTokenFromHeader(r)
	req.NoError(err)
	req.Equal("abc.def.ghi", token)

	r.Header.Set("Authorization", "abc.def.ghi")
	_, err = ExtractTokenFromHeader(r)
	req.Error(err)

	r.Header.Del("Authorization")
	_, err = ExtractTokenFromHeader(r)
	req.Error(err)
}
