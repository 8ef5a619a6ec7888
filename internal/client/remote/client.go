// Package remote реализует HTTP клиент удаленной базы EchoMind.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/echomind/pkg/api"
)

var (
	// ErrNotFound сервер не нашел строку (404)
	ErrNotFound = errors.New("remote: not found")
	// ErrConflict строка с таким id уже существует (409)
	ErrConflict = errors.New("remote: conflict")
	// ErrUnauthorized нет токена или токен отвергнут (401, 403)
	ErrUnauthorized = errors.New("remote: unauthorized")
)

// TokenSource выдает access token для заголовка Authorization.
// Пустой токен означает анонимный запрос.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Filter условие "column = value" в query параметрах (?column=eq.value)
type Filter struct {
	Column string
	Value  string
}

// Eq создает фильтр равенства
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	baseURL    string
}

// NewClient создает новый клиент удаленной базы
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetTokenSource задает источник access token.
// Вызывается один раз при сборке приложения.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// Select возвращает строки таблицы, подходящие под все фильтры
func (c *Client) Select(ctx context.Context, table string, filters ...Filter) ([]api.Row, error) {
	var rows []api.Row
	if err := c.doRequest(ctx, http.MethodGet, tablePath(table, filters), nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("select %s failed: %w", table, err)
	}
	return rows, nil
}

// Insert добавляет строку. ErrConflict если id уже занят.
func (c *Client) Insert(ctx context.Context, table string, row api.Row) error {
	if err := c.doRequest(ctx, http.MethodPost, tablePath(table, nil), nil, row, nil); err != nil {
		return fmt.Errorf("insert into %s failed: %w", table, err)
	}
	return nil
}

// Upsert вставляет строку или перезаписывает существующую с тем же id
func (c *Client) Upsert(ctx context.Context, table string, row api.Row) error {
	headers := map[string]string{api.PreferHeader: api.PreferMergeDuplicate}
	if err := c.doRequest(ctx, http.MethodPost, tablePath(table, nil), headers, row, nil); err != nil {
		return fmt.Errorf("upsert into %s failed: %w", table, err)
	}
	return nil
}

// Update перезаписывает строки, подходящие под фильтры. ErrNotFound если таких нет.
func (c *Client) Update(ctx context.Context, table string, row api.Row, filters ...Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("update %s: at least one filter is required", table)
	}
	if err := c.doRequest(ctx, http.MethodPatch, tablePath(table, filters), nil, row, nil); err != nil {
		return fmt.Errorf("update %s failed: %w", table, err)
	}
	return nil
}

// Delete удаляет строки, подходящие под фильтры
func (c *Client) Delete(ctx context.Context, table string, filters ...Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("delete from %s: at least one filter is required", table)
	}
	if err := c.doRequest(ctx, http.MethodDelete, tablePath(table, filters), nil, nil, nil); err != nil {
		return fmt.Errorf("delete from %s failed: %w", table, err)
	}
	return nil
}

// SignUp регистрирует нового пользователя и возвращает его токен
func (c *Client) SignUp(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	req := api.SignUpRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/v1/signup", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("signup request failed: %w", err)
	}
	return &resp, nil
}

// SignIn выполняет аутентификацию по email и паролю
func (c *Client) SignIn(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	req := api.TokenRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/v1/token", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, nil, &resp); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func tablePath(table string, filters []Filter) string {
	path := "/rest/v1/" + url.PathEscape(table)
	if len(filters) == 0 {
		return path
	}
	q := url.Values{}
	for _, f := range filters {
		q.Add(f.Column, "eq."+f.Value)
	}
	return path + "?" + q.Encode()
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, headers map[string]string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func statusError(code int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && (errResp.Message != "" || errResp.Error != "") {
		msg = errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
	}

	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (%d): %s", ErrUnauthorized, code, msg)
	default:
		return fmt.Errorf("server error (%d): %s", code, msg)
	}
}
