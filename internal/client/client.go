// Package client implements the calendar editor's AvailabilityService over the
// backoffice HTTP API, against either the admin or the partner route family.
package client

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

	"backoffice/internal/calendar/manager"
	"backoffice/internal/domain"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-success envelope returned by the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
}

type Config struct {
	BaseURL string
	Token   string
	// AsAdmin selects the admin route family; otherwise the partner one is used.
	AsAdmin    bool
	HTTPClient *http.Client
}

type Client struct {
	base   string
	prefix string
	token  string
	http   *http.Client
}

var _ manager.AvailabilityService = (*Client)(nil)

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	prefix := "/api/v1/partner"
	if cfg.AsAdmin {
		prefix = "/api/v1/admin"
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		prefix: prefix,
		token:  cfg.Token,
		http:   hc,
	}
}

// Login exchanges credentials for a bearer token.
func Login(ctx context.Context, hc *http.Client, baseURL, email, password string) (string, error) {
	c := &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) ListRoomTypes(ctx context.Context, experienceID int64) ([]domain.RoomType, error) {
	var out []domain.RoomType
	path := fmt.Sprintf("%s/experiences/%d/room-types", c.prefix, experienceID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRoomType(ctx context.Context, in manager.RoomTypeInput) (*domain.RoomType, error) {
	var out domain.RoomType
	path := fmt.Sprintf("%s/experiences/%d/room-types", c.prefix, in.ExperienceID)
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRoomType(ctx context.Context, id int64, patch manager.RoomTypePatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/room-types/%d", c.prefix, id), patch, nil)
}

func (c *Client) DeleteRoomType(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/room-types/%d", c.prefix, id), nil, nil)
}

func (c *Client) GetAvailability(ctx context.Context, q manager.AvailabilityQuery) ([]domain.AvailabilityPeriod, error) {
	v := url.Values{}
	v.Set("experience_id", strconv.FormatInt(q.ExperienceID, 10))
	v.Set("room_type_id", strconv.FormatInt(q.RoomTypeID, 10))
	v.Set("start_date", q.StartDate)
	v.Set("end_date", q.EndDate)

	var out []domain.AvailabilityPeriod
	if err := c.do(ctx, http.MethodGet, c.prefix+"/availability?"+v.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BulkUpsertAvailability(ctx context.Context, periods []domain.AvailabilityPeriod) error {
	type period struct {
		ExperienceID   int64   `json:"experience_id"`
		RoomTypeID     int64   `json:"room_type_id"`
		Date           string  `json:"date"`
		Price          float64 `json:"price"`
		OriginalPrice  float64 `json:"original_price"`
		AvailableRooms int     `json:"available_rooms"`
		IsAvailable    bool    `json:"is_available"`
	}
	body := struct {
		Periods []period `json:"periods"`
	}{Periods: make([]period, 0, len(periods))}
	for _, p := range periods {
		body.Periods = append(body.Periods, period{
			ExperienceID:   p.ExperienceID,
			RoomTypeID:     p.RoomTypeID,
			Date:           p.Date,
			Price:          p.Price,
			OriginalPrice:  p.OriginalPrice,
			AvailableRooms: p.AvailableRooms,
			IsAvailable:    p.IsAvailable,
		})
	}
	return c.do(ctx, http.MethodPost, c.prefix+"/availability/bulk-upsert", body, nil)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Code: "BAD_RESPONSE", Message: strings.TrimSpace(string(raw))}
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
