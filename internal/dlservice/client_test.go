package dlservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatListPreservesOrder(t *testing.T) {
	raw := []byte(`{
		"18": {"height": 360, "filesize": 100},
		"22": {"height": 720, "filesize": 200},
		"137": {"height": 1080, "filesize_approx": 300}
	}`)

	var list FormatList
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 3)

	assert.Equal(t, "18", list[0].ID)
	assert.Equal(t, "137", list[2].ID)

	last, ok := list.Last()
	require.True(t, ok)
	assert.Equal(t, "137", last.ID)
	assert.Equal(t, int64(300), last.Size())

	f, ok := list.ByID("22")
	require.True(t, ok)
	assert.Equal(t, 720, f.Height)
}

func TestGetInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /get_info", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-key", r.Header.Get("X-API-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode(map[string]string{"task_id": "t1"})
	})
	mux.HandleFunc("GET /status/t1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "completed", "file": "/files/t1/info.json"})
	})
	mux.HandleFunc("GET /files/t1/info.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"title": "A Video",
			"is_live": false,
			"duration": 300,
			"qualities": {
				"video": {"22": {"height": 720, "filesize": 1000}},
				"audio": {"140": {"abr": 128, "filesize": 50}}
			}
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	info, err := c.GetInfo("user-key", "https://www.youtube.com/watch?v=x")
	require.NoError(t, err)

	assert.Equal(t, "A Video", info.Title)
	assert.Equal(t, float64(300), info.Duration)
	require.Len(t, info.Qualities.Video, 1)
	assert.Equal(t, "22", info.Qualities.Video[0].ID)
}

func TestResolvePollsUntilComplete(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status/t2", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			json.NewEncoder(w).Encode(map[string]string{"status": "processing"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "completed", "file": "/files/t2/out.mp4"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Resolve("k", "t2", 10)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/files/t2/out.mp4", res.FileURL)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestResolveTaskError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status/t3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": "extraction failed"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Resolve("k", "t3", 10)
	var taskErr *TaskFailedError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "extraction failed", taskErr.Reason)
}

func TestResolveRetryBudgetExhausted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status/t4", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "processing"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Resolve("k", "t4", 2)
	assert.ErrorIs(t, err, ErrResolveTimeout)
}

func TestSubmitTask(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /download", func(w http.ResponseWriter, r *http.Request) {
		var req TaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, TaskLiveVideo, req.Kind)
		assert.Equal(t, 120, req.Duration)
		json.NewEncoder(w).Encode(map[string]string{"task_id": "t5"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	id, err := c.SubmitTask("k", TaskRequest{Kind: TaskLiveVideo, URL: "u", Duration: 120, OutputFormat: "mp4"})
	require.NoError(t, err)
	assert.Equal(t, "t5", id)
}

func TestSubmitTaskServiceError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /download", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "permission denied"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.SubmitTask("k", TaskRequest{Kind: TaskVideo, URL: "u", OutputFormat: "mp4"})
	require.Error(t, err)
	assert.Equal(t, "permission denied", err.Error())
}

func TestFetchFileEnforcesCeiling(t *testing.T) {
	payload := make([]byte, 2048)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/big", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="big.mp4"`)
		w.Write(payload)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)

	data, name, err := c.FetchFile("k", srv.URL+"/files/big", 4096)
	require.NoError(t, err)
	assert.Equal(t, "big.mp4", name)
	assert.Len(t, data, 2048)

	_, _, err = c.FetchFile("k", srv.URL+"/files/big", 1024)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestKeyLifecycle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /get_key/alice_downvot", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "admin" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("POST /create_key", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        string   `json:"name"`
			Permissions []string `json:"permissions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice_downvot", body.Name)
		assert.Contains(t, body.Permissions, "get_info")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"key": "new-key"})
	})
	mux.HandleFunc("DELETE /delete_key/alice_downvot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.GetKey("admin", "alice_downvot")
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	key, err := c.CreateKey("admin", "alice_downvot", []string{"get_video", "get_info"})
	require.NoError(t, err)
	assert.Equal(t, "new-key", key)

	require.NoError(t, c.DeleteKey("admin", "alice_downvot"))
}
