package bookingapi

import (
	"bytes"
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

const headerUserID = "X-User-ID"

// Client клиент HTTP API сервиса записи (используется мастером записи)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FindBestBeautician GET /api/v1/find-best-beautician
func (c *Client) FindBestBeautician(ctx context.Context, q PreviewQuery) (*Recommendation, error) {
	var out Recommendation
	if err := c.do(ctx, http.MethodGet, "/api/v1/find-best-beautician", previewParams(q), 0, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableBeauticians GET /api/v1/available-beauticians
func (c *Client) AvailableBeauticians(ctx context.Context, q PreviewQuery) (*BeauticianList, error) {
	var out BeauticianList
	if err := c.do(ctx, http.MethodGet, "/api/v1/available-beauticians", previewParams(q), 0, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableTimeSlots GET /api/v1/beauticians/{id}/available-time-slots
func (c *Client) AvailableTimeSlots(ctx context.Context, beauticianID int64, totalDuration int, date time.Time) ([]Slot, error) {
	params := url.Values{}
	params.Set("total_duration", strconv.Itoa(totalDuration))
	params.Set("date", date.Format(domain.DateFormat))

	var out timeSlotsResponse
	path := fmt.Sprintf("/api/v1/beauticians/%d/available-time-slots", beauticianID)
	if err := c.do(ctx, http.MethodGet, path, params, 0, nil, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

// SmartBooking POST /api/v1/smart-booking от имени клиента
func (c *Client) SmartBooking(ctx context.Context, customerID int64, req *SmartBookingRequest) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/api/v1/smart-booking", nil, customerID, req, &out); err != nil {
		return nil, err
	}
	c.log.Info("BookingAPI: smart booking created appointment id=%d", out.ID)
	return &out, nil
}

// CreateAppointment POST /api/v1/appointments от имени клиента
func (c *Client) CreateAppointment(ctx context.Context, customerID int64, req *CreateAppointmentRequest) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/api/v1/appointments", nil, customerID, req, &out); err != nil {
		return nil, err
	}
	c.log.Info("BookingAPI: created appointment id=%d", out.ID)
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, customerID int64, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode body: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if customerID > 0 {
		req.Header.Set(headerUserID, strconv.FormatInt(customerID, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Отмена контекста - не недоступность сервиса
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("BookingAPI: %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	apiErr := &APIError{Status: resp.StatusCode}
	var errResp errorResponse
	if json.Unmarshal(raw, &errResp) == nil {
		apiErr.Code = errResp.Code
		apiErr.Message = errResp.Message
	}
	return apiErr
}

func previewParams(q PreviewQuery) url.Values {
	ids := make([]string, 0, len(q.ServiceIDs))
	for _, id := range q.ServiceIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	params := url.Values{}
	params.Set("service_ids", strings.Join(ids, ","))
	params.Set("date", q.Date.Format(domain.DateFormat))
	if q.BranchID != nil {
		params.Set("branch_id", strconv.FormatInt(*q.BranchID, 10))
	}
	return params
}
