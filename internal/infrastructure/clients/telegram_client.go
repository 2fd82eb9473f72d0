package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"botto/internal/common/httputil"
	"botto/internal/config"
	"botto/internal/domain/clients"
	domainerrors "botto/internal/domain/errors"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

type TelegramClient struct {
	client      *resty.Client
	sendLimiter *rate.Limiter
	baseURL     string
	logger      *slog.Logger
}

// NewTelegramClient builds the gateway transport: a resilient resty client
// plus a limiter pacing outbound sends below the gateway's flood limits.
func NewTelegramClient(cfg *config.Config, logger *slog.Logger) clients.TelegramClient {
	perSecond := cfg.SendRatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}

	return &TelegramClient{
		client:      httputil.CreateResilientHTTPClient(cfg, logger, "telegram"),
		sendLimiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
		baseURL:     fmt.Sprintf("%s/bot%s", cfg.GatewayURL, cfg.BotToken),
		logger:      logger,
	}
}

var tokenPattern = regexp.MustCompile(`/bot([^/\s]+)`)

// sanitizeError keeps the bot token out of logs and wrapped errors.
func sanitizeError(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s", tokenPattern.ReplaceAllString(err.Error(), "/bot[MASKED_TOKEN]"))
}

func (c *TelegramClient) GetUpdates(ctx context.Context, offset *int64) ([]clients.Update, error) {
	request := c.client.R().SetContext(ctx)

	// The offset is exclusive: the gateway is asked for everything after
	// the cursor. A nil cursor is the cold-start case and omits the
	// parameter entirely.
	if offset != nil {
		request.SetQueryParam("offset", strconv.FormatInt(*offset+1, 10))
	}

	var updateResponse struct {
		OK     bool             `json:"ok"`
		Result []clients.Update `json:"result"`
	}

	resp, err := request.
		SetResult(&updateResponse).
		Get(c.baseURL + "/getUpdates")
	if err != nil {
		return nil, sanitizeError(err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, &domainerrors.ErrInvalidBotToken{}
	}

	if !resp.IsSuccess() {
		return nil, &domainerrors.HTTPError{StatusCode: resp.StatusCode()}
	}

	if !updateResponse.OK {
		c.logger.Warn("gateway reported a failed getUpdates call")
		return nil, nil
	}

	return updateResponse.Result, nil
}

func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text string) error {
	if text == "" {
		return nil
	}

	if err := c.sendLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("send rate limiter: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"chat_id": chatID,
			"text":    text,
		}).
		Post(c.baseURL + "/sendMessage")
	if err != nil {
		return sanitizeError(err)
	}

	if !resp.IsSuccess() {
		return &domainerrors.HTTPError{StatusCode: resp.StatusCode()}
	}

	return nil
}
