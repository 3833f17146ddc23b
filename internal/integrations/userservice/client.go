package userservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Client клиент для работы с UserService (справочник мастеров)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ListBeauticians получает пользователей с ролью beautician.
// branchID = nil - мастера всех филиалов.
func (c *Client) ListBeauticians(ctx context.Context, branchID *int64) ([]*domain.Beautician, error) {
	params := url.Values{}
	params.Set("role", domain.RoleBeautician)
	if branchID != nil {
		params.Set("branch_id", strconv.FormatInt(*branchID, 10))
	}
	endpoint := fmt.Sprintf("%s/internal/users?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	default:
		var errResp ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	beauticians := make([]*domain.Beautician, 0, len(users))
	for i := range users {
		// сервис может вернуть лишних, если проигнорирует фильтр
		if users[i].Role != "" && users[i].Role != domain.RoleBeautician {
			continue
		}
		beauticians = append(beauticians, users[i].ToBeautician())
	}

	c.log.Info("UserService: fetched %d beauticians", len(beauticians))
	return beauticians, nil
}
