package reservationapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client REST клиент сервиса бронирований
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает клиента; baseURL без суффикса /api (например http://localhost:8000)
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// SessionsByDate возвращает бронирования всех сессий на дату
func (c *Client) SessionsByDate(ctx context.Context, date time.Time) ([]domain.SessionBucket, error) {
	q := url.Values{"date": {date.Format(domain.DateFormat)}}

	var resp SessionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/reservations/by-session", q, "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain()
}

// Verify проверяет номер и интервал. Конфликт приходит в ответе, а не ошибкой
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/plates/verify", nil, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateReservation создает бронирование
func (c *Client) CreateReservation(ctx context.Context, req CreateRequest) (*Reservation, error) {
	var resp Reservation
	if err := c.do(ctx, http.MethodPost, "/api/reservations", nil, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyReservations бронирования пользователя по email и/или номеру
func (c *Client) MyReservations(ctx context.Context, owner OwnerFilter) ([]Reservation, error) {
	var resp []Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservations/my", owner.query(), "", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteReservation удаляет бронирование пользователя
func (c *Client) DeleteReservation(ctx context.Context, id string, owner OwnerFilter) error {
	var resp okResponse
	return c.do(ctx, http.MethodDelete, "/api/reservations/"+url.PathEscape(id), owner.query(), "", nil, &resp)
}

// UserLogin демо-вход пользователя
func (c *Client) UserLogin(ctx context.Context, creds Credentials) (*UserLoginResponse, error) {
	var resp UserLoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/login", nil, "", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminLogin вход администратора
func (c *Client) AdminLogin(ctx context.Context, creds Credentials) (*AdminLoginResponse, error) {
	var resp AdminLoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", nil, "", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminSessionsByDate бронирования всех сессий на дату от имени администратора
func (c *Client) AdminSessionsByDate(ctx context.Context, token string, date time.Time) ([]domain.SessionBucket, error) {
	if token == "" {
		return nil, ErrNotAuthorized
	}
	q := url.Values{"date": {date.Format(domain.DateFormat)}}

	var resp SessionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/reservations/by-session", q, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain()
}

// AdminDelete удаляет любое бронирование
func (c *Client) AdminDelete(ctx context.Context, token, id string) error {
	if token == "" {
		return ErrNotAuthorized
	}
	var resp okResponse
	return c.do(ctx, http.MethodDelete, "/api/admin/reservations/"+url.PathEscape(id), nil, token, nil, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("ReservationAPI: %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(resp.StatusCode, raw)}
		c.log.Warn("ReservationAPI: %s %s returned %d: %s", method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// extractMessage: поле detail, затем message, затем сырой текст ответа
func extractMessage(status int, raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if s, ok := body.Detail.(string); ok && s != "" {
			return s
		}
		if body.Detail != nil {
			if data, err := json.Marshal(body.Detail); err == nil {
				return string(data)
			}
		}
		if body.Message != "" {
			return body.Message
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return fmt.Sprintf("request failed (status %d)", status)
}

func (o OwnerFilter) query() url.Values {
	q := url.Values{}
	if o.Email != "" {
		q.Set("email", o.Email)
	}
	if o.Plate != "" {
		q.Set("plate", o.Plate)
	}
	return q
}
