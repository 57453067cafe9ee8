package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжного провайдера.
// Если apiURL пустой, используется боевой адрес API.
func NewClient(secretKey, apiURL string) *Client {
	if apiURL == "" {
		apiURL = "https://api.paystack.co"
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// InitializeTransaction создаёт транзакцию у провайдера и возвращает
// URL страницы оплаты вместе со ссылкой reference.
func (c *Client) InitializeTransaction(ctx context.Context, reqParams InitializeRequest) (*InitializeData, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/transaction/initialize", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var initResp envelope[InitializeData]
	if err := json.NewDecoder(resp.Body).Decode(&initResp); err != nil {
		return nil, err
	}
	if !initResp.Status {
		return nil, fmt.Errorf("provider rejected transaction: %s", initResp.Message)
	}
	return &initResp.Data, nil
}

// VerifyTransaction запрашивает у провайдера состояние транзакции
// по её reference. Сам по себе вызов не означает успех оплаты:
// вызывающий обязан проверить VerifyData.Status.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyData, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var verifyResp envelope[VerifyData]
	if err := json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return nil, err
	}
	if !verifyResp.Status {
		return nil, fmt.Errorf("provider rejected verification: %s", verifyResp.Message)
	}
	return &verifyResp.Data, nil
}
