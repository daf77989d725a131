package cardindex

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/tapcycle/commander-league/internal/domain/card"
	"github.com/tapcycle/commander-league/internal/platform/cache"
	"github.com/tapcycle/commander-league/internal/platform/logging"
	"github.com/tapcycle/commander-league/internal/platform/resilience"
)

// errTransient marks failures that should count against the circuit
// breaker: network errors, timeouts, and 5xx responses.
var errTransient = crerr.New("card index transient failure")

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Breaker resilience.CircuitBreakerConfig
}

// Client resolves cards from the external card index over HTTP.
// Card data is immutable in practice, so lookups are cached and
// deduplicated; the breaker keeps a flapping index from stalling
// scoresheet submission.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cards      *cache.Store
	flight     resilience.SingleFlight
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig, cards *cache.Store, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Breaker.Enabled {
		normalized := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)
		breaker = resilience.NewCircuitBreaker(normalized.FailureThreshold, normalized.OpenTimeout, normalized.HalfOpenMaxReq)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		cards:      cards,
		breaker:    breaker,
		logger:     logger,
	}
}

type cardLookup struct {
	card  card.Card
	found bool
}

func (c *Client) GetByID(ctx context.Context, cardID string) (card.Card, bool, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return card.Card{}, false, nil
	}

	cacheKey := "cardindex:card:" + cardID
	if c.cards != nil {
		if cached, ok := c.cards.Get(ctx, cacheKey); ok {
			if lookup, ok := cached.(cardLookup); ok {
				return lookup.card, lookup.found, nil
			}
		}
	}

	result, err, _ := c.flight.Do(cacheKey, func() (any, error) {
		lookup, err := c.fetch(ctx, cardID)
		if err != nil {
			return cardLookup{}, err
		}
		if c.cards != nil {
			c.cards.Set(ctx, cacheKey, lookup)
		}
		return lookup, nil
	})
	if err != nil {
		return card.Card{}, false, err
	}

	lookup := result.(cardLookup)
	return lookup.card, lookup.found, nil
}

func (c *Client) fetch(ctx context.Context, cardID string) (cardLookup, error) {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return cardLookup{}, fmt.Errorf("card index unavailable: %w", err)
		}
	}

	lookup, err := c.doFetch(ctx, cardID)
	if c.breaker != nil {
		if stderrors.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return lookup, err
}

func (c *Client) doFetch(ctx context.Context, cardID string) (cardLookup, error) {
	requestURL := c.baseURL + "/v1/cards/" + url.PathEscape(cardID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return cardLookup{}, fmt.Errorf("create card request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cardLookup{}, fmt.Errorf("%w: request card %s: %v", errTransient, cardID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return cardLookup{}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return cardLookup{}, fmt.Errorf("%w: read card response: %v", errTransient, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.WarnContext(ctx, "card index server error",
			"card_id", cardID,
			"status_code", resp.StatusCode,
		)
		return cardLookup{}, fmt.Errorf("%w: card index returned status %d", errTransient, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return cardLookup{}, fmt.Errorf("card index returned status %d", resp.StatusCode)
	}

	var decoded cardResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return cardLookup{}, fmt.Errorf("unmarshal card response: %w", err)
	}
	if strings.TrimSpace(decoded.Name) == "" {
		return cardLookup{}, fmt.Errorf("invalid card response: name is empty")
	}

	symbols := make([]string, 0, len(decoded.ColorIdentity))
	for _, symbol := range decoded.ColorIdentity {
		symbol = strings.ToLower(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		symbols = append(symbols, symbol)
	}

	return cardLookup{
		card: card.Card{
			ID:           cardID,
			Name:         decoded.Name,
			ColorSymbols: symbols,
		},
		found: true,
	}, nil
}

type cardResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ColorIdentity []string `json:"color_identity"`
}
