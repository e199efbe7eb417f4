package dlservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/downvot/downvot/internal/config"
)

var (
	ErrKeyNotFound    = errors.New("api key not found")
	ErrResolveTimeout = errors.New("task did not resolve within the retry budget")
	ErrFileTooLarge   = errors.New("file exceeds the inline delivery ceiling")
)

// TaskFailedError is a service-side task failure with the reported reason.
type TaskFailedError struct {
	Reason string
}

func (e *TaskFailedError) Error() string {
	return "task failed: " + e.Reason
}

// Client talks to the download service. Per-user calls carry the user's API
// key; key administration uses the admin key.
type Client struct {
	baseURL    string
	httpClient *http.Client
	fileClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		fileClient: &http.Client{Timeout: config.FileFetchTimeout},
	}
}

type statusResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
	Error  string `json:"error"`
}

type taskCreatedResponse struct {
	TaskID string `json:"task_id"`
	Error  string `json:"error"`
}

func (c *Client) doJSON(method, path, apiKey string, body interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", apiKey)
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithFields(log.Fields{"path": path, "request_id": reqID}).WithError(err).Debug("api request failed")
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return data, resp.StatusCode, err
}

// GetInfo resolves media metadata for a URL. The service runs get_info as a
// task of its own, so this submits and then polls like any other task.
func (c *Client) GetInfo(apiKey, rawURL string) (*MediaInfo, error) {
	data, status, err := c.doJSON("POST", "/get_info", apiKey, map[string]string{"url": rawURL})
	if err != nil {
		return nil, err
	}
	taskID, err := parseTaskResponse(data, status)
	if err != nil {
		return nil, err
	}

	filePath, err := c.awaitFile(apiKey, taskID, config.MaxResolveAttempts)
	if err != nil {
		return nil, err
	}

	infoData, status, err := c.doJSON("GET", filePath+"?qualities&title", apiKey, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("info fetch failed: HTTP %d", status)
	}

	var info MediaInfo
	if err := json.Unmarshal(infoData, &info); err != nil {
		return nil, fmt.Errorf("failed to parse media info: %w", err)
	}
	return &info, nil
}

// SubmitTask creates exactly one download task and returns its id.
func (c *Client) SubmitTask(apiKey string, req TaskRequest) (string, error) {
	data, status, err := c.doJSON("POST", "/download", apiKey, req)
	if err != nil {
		return "", err
	}
	return parseTaskResponse(data, status)
}

// Resolve polls a task until it completes or the retry budget runs out, and
// returns the durable file URL.
func (c *Client) Resolve(apiKey, taskID string, maxAttempts int) (*TaskResult, error) {
	filePath, err := c.awaitFile(apiKey, taskID, maxAttempts)
	if err != nil {
		return nil, err
	}
	return &TaskResult{FileURL: c.baseURL + filePath}, nil
}

func (c *Client) awaitFile(apiKey, taskID string, maxAttempts int) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		data, status, err := c.doJSON("GET", "/status/"+taskID, apiKey, nil)
		if err != nil {
			return "", err
		}
		if status != http.StatusOK {
			return "", fmt.Errorf("status check failed: HTTP %d", status)
		}

		var st statusResponse
		if err := json.Unmarshal(data, &st); err != nil {
			return "", fmt.Errorf("failed to parse status: %w", err)
		}

		switch st.Status {
		case "completed":
			return st.File, nil
		case "error":
			reason := st.Error
			if reason == "" {
				reason = "unknown error"
			}
			return "", &TaskFailedError{Reason: reason}
		}

		time.Sleep(pollDelay(attempt))
	}
	return "", ErrResolveTimeout
}

func pollDelay(attempt int) time.Duration {
	if attempt < 5 {
		return 500 * time.Millisecond
	}
	if attempt < 15 {
		return 1500 * time.Millisecond
	}
	return 3 * time.Second
}

// FetchFile pulls the resolved file for inline delivery. maxSize guards
// against a projection that underestimated the real size.
func (c *Client) FetchFile(apiKey, fileURL string, maxSize int64) ([]byte, string, error) {
	req, err := http.NewRequest("GET", fileURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("X-API-Key", apiKey)

	resp, err := c.fileClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("file fetch failed: HTTP %d", resp.StatusCode)
	}

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, perr := mime.ParseMediaType(cd); perr == nil {
			filename = params["filename"]
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > maxSize {
		return nil, "", ErrFileTooLarge
	}
	return data, filename, nil
}

type keyResponse struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// GetKey looks up an issued key by name. Admin-scoped.
func (c *Client) GetKey(adminKey, name string) (string, error) {
	data, status, err := c.doJSON("GET", "/get_key/"+name, adminKey, nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", ErrKeyNotFound
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("get_key failed: HTTP %d", status)
	}
	var resp keyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	return resp.Key, nil
}

// CreateKey provisions a named key with a permission set. Admin-scoped.
func (c *Client) CreateKey(adminKey, name string, permissions []string) (string, error) {
	body := map[string]interface{}{"name": name, "permissions": permissions}
	data, status, err := c.doJSON("POST", "/create_key", adminKey, body)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return "", fmt.Errorf("create_key failed: HTTP %d", status)
	}
	var resp keyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	if resp.Key == "" {
		return "", errors.New("create_key returned no key")
	}
	return resp.Key, nil
}

// DeleteKey revokes a named key. Admin-scoped.
func (c *Client) DeleteKey(adminKey, name string) error {
	_, status, err := c.doJSON("DELETE", "/delete_key/"+name, adminKey, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return ErrKeyNotFound
	}
	if status != http.StatusOK {
		return fmt.Errorf("delete_key failed: HTTP %d", status)
	}
	return nil
}

// PermissionsCheck asks the service whether a key carries all the given
// permissions.
func (c *Client) PermissionsCheck(apiKey string, permissions []string) (bool, error) {
	body := map[string]interface{}{"permissions": permissions}
	_, status, err := c.doJSON("POST", "/permissions_check", apiKey, body)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// Ping reports whether the service answers at all; used by the status API.
func (c *Client) Ping() bool {
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

func parseTaskResponse(data []byte, httpStatus int) (string, error) {
	var resp taskCreatedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if httpStatus != http.StatusOK && httpStatus != http.StatusCreated {
		if resp.Error != "" {
			return "", errors.New(resp.Error)
		}
		return "", fmt.Errorf("HTTP %d", httpStatus)
	}
	if resp.TaskID == "" {
		return "", errors.New("service returned no task id")
	}
	return resp.TaskID, nil
}
