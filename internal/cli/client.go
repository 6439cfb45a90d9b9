package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// StateResponse — снимок состояния сервиса из API.
type StateResponse struct {
	Logs         []string `json:"logs"`
	StartedJobs  int      `json:"started_jobs"`
	FinishedJobs int      `json:"finished_jobs"`
}

// HealthResponse — ответ /healthz.
type HealthResponse struct {
	Status       string  `json:"status"`
	Version      string  `json:"version"`
	UptimeS      float64 `json:"uptime_s"`
	StartedJobs  int     `json:"started_jobs"`
	FinishedJobs int     `json:"finished_jobs"`
}

// --- Request types ---

// SubmitJobRequest — заявка на обработку.
type SubmitJobRequest struct {
	SourceAddress      string `json:"source_address"`
	DestinationAddress string `json:"destination_address"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для stemd API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SubmitJob отправляет задачу на обработку. Успех означает только
// приём: сервис продолжит обработку после ответа.
func (c *Client) SubmitJob(req SubmitJobRequest) error {
	return c.doData(http.MethodPost, "/api/v1/jobs", req, nil)
}

// GetState возвращает снимок состояния сервиса.
func (c *Client) GetState() (*StateResponse, error) {
	var state StateResponse
	err := c.doData(http.MethodGet, "/api/v1/state", nil, &state)
	return &state, err
}

// Health возвращает ответ /healthz. Без конверта DataResponse.
func (c *Client) Health() (*HealthResponse, error) {
	resp, err := c.do(http.MethodGet, "/healthz", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &health, nil
}

// --- HTTP helpers ---

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if result == nil {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(dr.Data, result)
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
