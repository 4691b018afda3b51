package webpush

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	wp "github.com/SherClockHolmes/webpush-go"

	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
	"github.com/yungbote/skillmatch-backend/internal/platform/envutil"
)

// Payload is what the service worker on the device receives.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// ErrSubscriptionGone marks endpoints the push service reports as expired or
// unregistered; callers should prune the subscription row.
var ErrSubscriptionGone = fmt.Errorf("push subscription gone")

type Client interface {
	Send(ctx context.Context, sub *types.PushSubscription, payload Payload) error
}

type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	TTLSeconds      int
}

func ConfigFromEnv() Config {
	return Config{
		VAPIDPublicKey:  strings.TrimSpace(os.Getenv("VAPID_PUBLIC_KEY")),
		VAPIDPrivateKey: strings.TrimSpace(os.Getenv("VAPID_PRIVATE_KEY")),
		Subscriber:      envutil.Str("VAPID_SUBJECT", "mailto:noreply@skillmatch.de"),
		TTLSeconds:      envutil.Int("WEBPUSH_TTL_SECONDS", 60),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, fmt.Errorf("missing VAPID_PUBLIC_KEY / VAPID_PRIVATE_KEY")
	}
	if cfg.TTLSeconds <= 0 {
		cfg.TTLSeconds = 60
	}
	return &client{
		log:        log.With("client", "WebPushClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func (c *client) Send(ctx context.Context, sub *types.PushSubscription, payload Payload) error {
	if c == nil || sub == nil {
		return fmt.Errorf("webpush client unavailable")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := wp.SendNotificationWithContext(ctx, raw, &wp.Subscription{
		Endpoint: sub.Endpoint,
		Keys: wp.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.AuthKey,
		},
	}, &wp.Options{
		HTTPClient:      c.httpClient,
		Subscriber:      c.cfg.Subscriber,
		VAPIDPublicKey:  c.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: c.cfg.VAPIDPrivateKey,
		TTL:             c.cfg.TTLSeconds,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return ErrSubscriptionGone
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webpush http %d", resp.StatusCode)
	}
	return nil
}
