// Cliente HTTP do wallet-service (colaborador de ledger/saldo).
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/lotto-platform-poc/internal/game"
	walletdto "github.com/radieske/lotto-platform-poc/internal/lottery-service/wallet/dto"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Reserve bloqueia o stake na carteira do usuário; 402 vira
// game.ErrInsufficientFunds para o core decidir sem olhar HTTP.
func (c *Client) Reserve(ctx context.Context, userID string, amountCents int64, ref string) error {
	status, err := c.post(ctx, "/wallet/reserve", walletdto.ReserveRequest{
		UserID: userID, AmountCents: amountCents, ExternalRef: ref,
	})
	if err != nil {
		return err
	}
	if status == http.StatusPaymentRequired {
		return game.ErrInsufficientFunds
	}
	if status >= 300 {
		return fmt.Errorf("wallet reserve http %d", status)
	}
	return nil
}

// Credit paga um prêmio; a chave de idempotência garante crédito único
// mesmo com retries da liquidação.
func (c *Client) Credit(ctx context.Context, userID string, amountCents int64, idempotencyKey string) error {
	status, err := c.post(ctx, "/wallet/credit", walletdto.CreditRequest{
		UserID: userID, AmountCents: amountCents, IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("wallet credit http %d", status)
	}
	return nil
}

// Release devolve uma reserva não consumida (aposta recusada na inserção).
func (c *Client) Release(ctx context.Context, userID string, ref string) error {
	status, err := c.post(ctx, "/wallet/release", walletdto.ReleaseRequest{
		UserID: userID, ExternalRef: ref,
	})
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("wallet release http %d", status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, error) {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	return res.StatusCode, nil
}

var _ game.Ledger = (*Client)(nil)
