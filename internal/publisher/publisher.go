package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/jgoulah/powerscheduler/internal/config"
	"github.com/jgoulah/powerscheduler/pkg/models"
)

// Publisher delivers recommendations to Home Assistant and/or an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig) (*Publisher, error) {
	if !mqttCfg.Enabled && !haCfg.Enabled {
		return nil, errors.New("neither MQTT nor Home Assistant publishing is enabled in config")
	}

	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		// Configure MQTT client options
		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("powerscheduler")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		// Create and connect client
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return newPublisher(client, mqttCfg.GetTopicPrefix(), haCfg), nil
}

func newPublisher(client mqtt.Client, topicPrefix string, haCfg config.HAConfig) *Publisher {
	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Payload is the recommendation message sent over MQTT and as HA state attributes
type Payload struct {
	RunID           string    `json:"run_id"`
	Hour            int       `json:"hour"`
	Label           string    `json:"label"`
	MeanConsumption float64   `json:"mean_consumption_kwh"`
	TrendSlope      float64   `json:"trend_slope"`
	TrendIntercept  float64   `json:"trend_intercept"`
	Readings        int       `json:"readings"`
	Source          string    `json:"source"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// NewPayload builds the message for a run
func NewPayload(run models.AnalysisRun) Payload {
	return Payload{
		RunID:           run.ID,
		Hour:            run.Recommendation.Hour,
		Label:           HourLabel(run.Recommendation.Hour),
		MeanConsumption: run.Recommendation.MeanConsumption,
		TrendSlope:      run.Trend.Slope,
		TrendIntercept:  run.Trend.Intercept,
		Readings:        run.Readings,
		Source:          run.Source,
		AnalyzedAt:      run.CreatedAt.UTC(),
	}
}

// HourLabel formats an hour of day as HH:00
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Topic returns the MQTT topic recommendations are published to
func (p *Publisher) Topic() string {
	return strings.TrimSuffix(p.topicPrefix, "/") + "/recommendation"
}

// Publish sends a run's recommendation to every enabled destination
func (p *Publisher) Publish(ctx context.Context, run models.AnalysisRun) error {
	payload := NewPayload(run)
	logger := zerolog.Ctx(ctx).With().Str("run_id", run.ID).Logger()

	if p.haConfig.Enabled {
		if err := p.publishHA(ctx, payload); err != nil {
			return fmt.Errorf("publishing to Home Assistant: %w", err)
		}
		logger.Debug().Str("entity_id", p.haConfig.EntityID).Msg("published to Home Assistant")
	}

	if p.client != nil {
		if err := p.publishMQTT(payload); err != nil {
			return fmt.Errorf("publishing to MQTT: %w", err)
		}
		logger.Debug().Str("topic", p.Topic()).Msg("published to MQTT")
	}

	return nil
}

// HAState matches the body of Home Assistant's POST /api/states/<entity_id>
type HAState struct {
	State      string  `json:"state"`
	Attributes Payload `json:"attributes"`
}

func (p *Publisher) publishHA(ctx context.Context, payload Payload) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimSuffix(p.haConfig.URL, "/"), p.haConfig.EntityID)

	body, err := json.Marshal(HAState{State: payload.Label, Attributes: payload})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// 201 when the entity is created, 200 when updated
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func (p *Publisher) publishMQTT(payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(p.Topic(), 1, true, body)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("timed out publishing to %s", p.Topic())
	}
	return token.Error()
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
