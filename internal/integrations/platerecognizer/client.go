package platerecognizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultContentType = "application/json; charset=utf-8"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса распознавания номеров
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        Logger
}

// NewClient создает клиента; endpoint полный URL (например http://lp:8001/v1/recognize)
func NewClient(endpoint string, timeout time.Duration, log Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// Recognize отправляет изображение multipart-полем image и возвращает ответ сервиса
func (c *Client) Recognize(ctx context.Context, img Image) (*Result, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	body, contentType, err := buildMultipart(img)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build multipart body: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.log.Warn("PlateRecognizer: timeout calling %s: %v", c.endpoint, err)
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		c.log.Error("PlateRecognizer: %s unreachable: %v", c.endpoint, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.log.Warn("PlateRecognizer: upstream returned status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	result := &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Headers:     map[string]string{},
		Body:        data,
	}
	if !strings.Contains(strings.ToLower(result.ContentType), "charset") {
		result.ContentType = defaultContentType
	}
	for _, h := range []string{"Cache-Control", "ETag"} {
		if v := resp.Header.Get(h); v != "" {
			result.Headers[h] = v
		}
	}

	return result, nil
}

func buildMultipart(img Image) (*bytes.Buffer, string, error) {
	filename := img.Filename
	if filename == "" {
		filename = "upload.jpg"
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
