package mqtt

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/PetoAdam/homenavi/weather-app/internal/models"
)

const DefaultTopicPrefix = "homenavi/weather/current"

// Publisher pushes current conditions of every successful lookup to a broker.
type Publisher struct {
	client mqtt.Client
	prefix string
}

func Connect(brokerURL, clientID, topicPrefix string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	url := strings.TrimSpace(brokerURL)
	if url == "" {
		return nil, errors.New("mqtt broker url is empty")
	}
	if strings.HasPrefix(url, "mqtt://") {
		url = "tcp://" + strings.TrimPrefix(url, "mqtt://")
	}
	opts.AddBroker(url)
	if strings.TrimSpace(clientID) == "" {
		clientID = "weather-app-" + time.Now().Format("150405.000")
	}
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	// If a TLS broker is used in the future, tighten this.
	opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		slog.Warn("mqtt connection lost", "error", err)
	}
	opts.OnConnect = func(_ mqtt.Client) {
		slog.Info("mqtt connected", "broker", url)
	}

	c := mqtt.NewClient(opts)
	tok := c.Connect()
	if ok := tok.WaitTimeout(15 * time.Second); !ok {
		return nil, errors.New("mqtt connect timed out")
	}
	if err := tok.Error(); err != nil {
		return nil, err
	}

	prefix := strings.TrimRight(strings.TrimSpace(topicPrefix), "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Publisher{client: c, prefix: prefix}, nil
}

// PublishCurrent sends the current section retained so late subscribers see
// the last known conditions.
func (p *Publisher) PublishCurrent(ctx context.Context, cur models.CurrentConditions) error {
	body, err := json.Marshal(cur)
	if err != nil {
		return err
	}
	tok := p.client.Publish(Topic(p.prefix, cur.City), 1, true, body)
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(1000)
}

// Topic builds "{prefix}/{slug}" where slug is the lower-cased city with
// runs of non-alphanumerics collapsed to '-'.
func Topic(prefix, city string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(city)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "unknown"
	}
	return strings.TrimRight(prefix, "/") + "/" + slug
}
