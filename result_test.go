package authform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFailureKeepsFieldOrder(t *testing.T) {
	f := decodeFailure(400, []byte(`{"code":400999,"message":{"password":[{"tag":"required"}],"email":[{"tag":"required"},{"tag":"email"}]}}`))

	require.False(t, f.Malformed)
	assert.True(t, f.HasCode)
	assert.Equal(t, CodeValidationFailed, f.Code)
	require.Len(t, f.Fields, 2)
	assert.Equal(t, "password", f.Fields[0].Field)
	assert.Equal(t, "email", f.Fields[1].Field)
	assert.Equal(t, []Issue{{Tag: "required"}, {Tag: "email"}}, f.Fields[1].Issues)
}

func TestDecodeFailureTextMessage(t *testing.T) {
	f := decodeFailure(401, []byte(`{"code":401001,"message":"bad credentials"}`))
	assert.Equal(t, CodeBadCredentials, f.Code)
	assert.Equal(t, 401001, f.Raw)
	assert.Equal(t, "bad credentials", f.Text)
	assert.Empty(t, f.Fields)
}

func TestDecodeFailureUnknownCode(t *testing.T) {
	f := decodeFailure(500, []byte(`{"code":999999}`))
	assert.True(t, f.HasCode)
	assert.Equal(t, CodeUnknown, f.Code)
	assert.Equal(t, 999999, f.Raw)
}

func TestDecodeFailureWithoutCode(t *testing.T) {
	f := decodeFailure(500, []byte(`{"error":"boom"}`))
	assert.False(t, f.Malformed)
	assert.False(t, f.HasCode)
}

func TestDecodeFailureFalsyCode(t *testing.T) {
	for _, body := range []string{`{"code":0}`, `{"code":""}`, `{"code":null}`, `{"code":false}`} {
		f := decodeFailure(400, []byte(body))
		assert.False(t, f.Malformed, body)
		assert.False(t, f.HasCode, body)
	}
}

func TestDecodeFailureStringCode(t *testing.T) {
	f := decodeFailure(400, []byte(`{"code":"401001","message":"bad credentials"}`))
	require.False(t, f.Malformed)
	assert.True(t, f.HasCode)
	assert.Equal(t, CodeUnknown, f.Code)
	assert.Equal(t, "401001", f.RawCode)
	assert.Equal(t, "401001", f.CodeText())
	assert.Equal(t, "bad credentials", f.Text)

	f = decodeFailure(400, []byte(`{"code":401001}`))
	assert.Equal(t, "401001", f.CodeText())
	assert.Empty(t, f.RawCode)
}

func TestDecodeFailureMalformed(t *testing.T) {
	for _, body := range []string{"", "<html>502 Bad Gateway</html>", "{"} {
		f := decodeFailure(502, []byte(body))
		assert.True(t, f.Malformed, body)
		assert.Error(t, f.Err)
	}
}

func TestDecodeSuccess(t *testing.T) {
	s, err := decodeSuccess(200, []byte(`{"token":"abc123","user":{"id":1}}`))
	require.NoError(t, err)
	tok, ok := s.Payload.String("token")
	assert.True(t, ok)
	assert.Equal(t, "abc123", tok)
	_, ok = s.Payload.String("user")
	assert.False(t, ok)

	s, err = decodeSuccess(200, []byte(`true`))
	require.NoError(t, err)
	assert.Empty(t, s.Payload)

	_, err = decodeSuccess(200, []byte(`OK`))
	assert.Error(t, err)
}
