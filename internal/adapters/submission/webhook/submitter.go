package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/pcbuilder/internal/domain"
)

const (
	SignatureHeader = "X-Build-Signature"
	RequestIDHeader = "X-Build-Request-ID"
)

// Submitter posts build requests to an external fulfilment endpoint.
type Submitter struct {
	url        string
	secret     string
	httpClient *http.Client
}

func NewSubmitter(url, secret string) *Submitter {
	if secret == "" {
		secret = "dev"
	}
	return &Submitter{url: url, secret: secret, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

type payload struct {
	ID string `json:"id"`
	*domain.BuildRequest
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify reports whether sig is the signature of body.
func Verify(secret, sig string, body []byte) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(sig))
}

func (s *Submitter) Submit(ctx context.Context, id uuid.UUID, r *domain.BuildRequest) error {
	if s.url == "" {
		return errors.New("webhook url missing (BUILD_REQUEST_WEBHOOK_URL)")
	}
	if r == nil {
		return errors.New("build request nil")
	}
	buf, err := json.Marshal(payload{ID: id.String(), BuildRequest: r})
	if err != nil {
		return fmt.Errorf("encode build request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, id.String())
	req.Header.Set(SignatureHeader, Sign(s.secret, buf))
	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook unreachable: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		var remote struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(body, &remote); err == nil {
			if remote.Message != "" {
				return fmt.Errorf("webhook status %d: %s", res.StatusCode, remote.Message)
			}
			if remote.Error != "" {
				return fmt.Errorf("webhook status %d: %s", res.StatusCode, remote.Error)
			}
		}
		return fmt.Errorf("webhook status %d: %s", res.StatusCode, string(bytes.TrimSpace(body)))
	}
	return nil
}

// Noop stands in when no webhook is configured. It logs the request and
// reports it as not forwarded.
type Noop struct{}

func (Noop) Submit(_ context.Context, id uuid.UUID, r *domain.BuildRequest) error {
	ev := log.Info().Str("request_id", id.String())
	if r != nil {
		ev = ev.Int("components", len(r.Components)).Float64("grand_total", r.Pricing.GrandTotal)
	}
	ev.Msg("build request not forwarded: no webhook configured")
	return domain.ErrNotForwarded
}
