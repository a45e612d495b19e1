// Cliente HTTP do serviço de elegibilidade (KYC/status). Consultado antes
// de toda aposta; nunca ignorado.
package eligibility

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/lotto-platform-poc/internal/game"
)

type Client struct {
	BaseURL string // vazio: libera todo mundo (default de ambiente local)
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

func (c *Client) IsEligibleToBet(ctx context.Context, userID string) (bool, error) {
	if c.BaseURL == "" {
		return true, nil
	}

	url := c.BaseURL + "/eligibility?userId=" + userID
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return false, fmt.Errorf("eligibility http %d", res.StatusCode)
	}

	var out struct {
		Eligible bool `json:"eligible"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Eligible, nil
}

var _ game.Eligibility = (*Client)(nil)
