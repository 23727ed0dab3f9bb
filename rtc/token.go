package rtc

import (
	"errors"

	rtctokenbuilder2 "github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"
)

// TokenExpireSeconds is how long a minted credential stays valid. Clients
// that outlive it are expected to re-invoke join to get a fresh one.
const TokenExpireSeconds = 3600

// TokenProvider mints a short-lived credential for one real-time channel.
type TokenProvider interface {
	RtcToken(channelName string, uid uint32) (string, error)
	AppID() string
}

type AgoraProvider struct {
	ID          string
	Certificate string
}

func NewAgoraProvider(appID, appCertificate string) (*AgoraProvider, error) {
	if appID == "" || appCertificate == "" {
		return nil, errors.New("agora app id and certificate are required")
	}
	return &AgoraProvider{ID: appID, Certificate: appCertificate}, nil
}

func (p *AgoraProvider) AppID() string {
	return p.ID
}

func (p *AgoraProvider) RtcToken(channelName string, uid uint32) (string, error) {
	return rtctokenbuilder2.BuildTokenWithUID(
		p.ID,
		p.Certificate,
		channelName,
		uid,
		rtctokenbuilder2.RolePublisher,
		TokenExpireSeconds,
	)
}
