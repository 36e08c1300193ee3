package provider

import (
	"context"
	"crypto/rsa"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"voice-relay/internal/apperrors"
	"voice-relay/internal/infra/logger"
)

// TokenTTL is how long a generated application JWT stays valid.
const TokenTTL = 15 * time.Minute

// ApplicationClaims are the claims the voice API expects in an application JWT.
type ApplicationClaims struct {
	ApplicationID string `json:"application_id"`
	jwt.RegisteredClaims
}

type VonageVoiceProvider struct {
	Logger        *logger.Logger
	HttpClient    *http.Client
	ApplicationID string
	PrivateKey    *rsa.PrivateKey
	now           func() time.Time
}

func NewVonageVoiceProvider(logger *logger.Logger, httpClient *http.Client, applicationID string, privateKey *rsa.PrivateKey) *VonageVoiceProvider {
	return &VonageVoiceProvider{
		Logger:        logger,
		HttpClient:    httpClient,
		ApplicationID: applicationID,
		PrivateKey:    privateKey,
		now:           time.Now,
	}
}

// GenerateJWT signs a short-lived RS256 application token.
func (vp *VonageVoiceProvider) GenerateJWT() (string, error) {
	now := vp.now()
	claims := ApplicationClaims{
		ApplicationID: vp.ApplicationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(vp.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign application JWT: %w", err)
	}
	return token, nil
}

// DownloadRecording issues an authenticated GET against the recording URL.
// Any transport failure or non-2xx answer is reported as a telephony error.
func (vp *VonageVoiceProvider) DownloadRecording(ctx context.Context, recordingURL string) (io.ReadCloser, error) {
	token, err := vp.GenerateJWT()
	if err != nil {
		return nil, apperrors.Telephony("failed to authenticate with the voice API", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, recordingURL, nil)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid recording_url: %v", err))
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Accept", "audio/mpeg, */*")

	res, err := vp.HttpClient.Do(req)
	if err != nil {
		vp.Logger.Error("Recording download failed", logrus.Fields{"recording_url": recordingURL, "error": err.Error()})
		return nil, apperrors.Telephony("recording download failed", err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		defer res.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		vp.Logger.Error("Unexpected recording download status", logrus.Fields{
			"recording_url": recordingURL,
			"status":        res.StatusCode,
			"response_body": string(body),
		})
		return nil, apperrors.Telephony(fmt.Sprintf("unexpected HTTP status: %s", res.Status), nil).
			WithDetail("upstream_status", res.StatusCode)
	}

	return res.Body, nil
}

// compile-time check
var _ IVoiceProvider = (*VonageVoiceProvider)(nil)
