package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/trahn-dashboard/internal/httputil"
	"github.com/kjannette/trahn-dashboard/internal/models"
)

const DefaultBotName = "TrahnDashboard"

// Sender posts run summaries to a Slack or Discord incoming webhook. A Sender
// without a webhook URL only logs.
type Sender struct {
	webhookURL string
	botName    string
	httpClient *http.Client
	retry      httputil.RetryConfig
	logger     *zap.Logger
}

func NewSender(webhookURL, botName string, logger *zap.Logger) *Sender {
	if botName == "" {
		botName = DefaultBotName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("notify")
	return &Sender{
		webhookURL: webhookURL,
		botName:    botName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    5 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Send delivers msg. Delivery failures are logged, never returned: a missed
// notification must not fail the run that already saved its state.
func (s *Sender) Send(ctx context.Context, msg string) {
	formatted := fmt.Sprintf("[%s] %s", s.botName, msg)
	s.logger.Info("notification", zap.String("message", formatted))

	if s.webhookURL == "" {
		return
	}

	body, err := json.Marshal(s.formatPayload(formatted))
	if err != nil {
		s.logger.Error("marshal payload", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		s.logger.Error("webhook delivery failed", zap.Error(err))
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		s.logger.Warn("webhook rejected notification", zap.Int("status", resp.StatusCode))
	}
}

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.botName,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.botName,
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// Summary renders the day's latest summary as a single chat line.
func Summary(latest models.LatestSummary, ethPriceUSD float64) string {
	b, d := latest.Balances, latest.DailyChange
	return fmt.Sprintf("Daily snapshot %s | SOL %s (%s) | Base %s (%s) | ETH %s (%s) | ETH/USD $%.2f | streak %d",
		latest.LastUpdated[:min(len(latest.LastUpdated), 10)],
		b.SolanaDevnet, d.SolanaDevnet,
		b.BaseSepolia, d.BaseSepolia,
		b.EthSepolia, d.EthSepolia,
		ethPriceUSD, latest.StreakDays)
}
