package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgoraProviderRequiresCredentials(t *testing.T) {
	_, err := NewAgoraProvider("", "cert")
	assert.Error(t, err)

	_, err = NewAgoraProvider("app-id", "")
	assert.Error(t, err)

	p, err := NewAgoraProvider("app-id", "cert")
	require.NoError(t, err)
	assert.Equal(t, "app-id", p.AppID())
}

func TestRtcTokenVariesByChannel(t *testing.T) {
	p, err := NewAgoraProvider("970CA35de60c44645bbae8a215061b33", "5CFd2fd1755d40ecb72977518be15d3b")
	require.NoError(t, err)

	token, err := p.RtcToken("skillup-room-1", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	other, err := p.RtcToken("skillup-room-2", 0)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
