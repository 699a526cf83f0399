package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	status  int
	content string
	calls   atomic.Int32
	last    map[string]any
	header  http.Header
}

func (f *fakeModel) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		f.header = r.Header.Clone()

		body, _ := io.ReadAll(r.Body)
		f.last = map[string]any{}
		_ = json.Unmarshal(body, &f.last)

		if f.status != 0 && f.status != http.StatusOK {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test-model",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": f.content},
			}},
		})
	}
}

func newTestClient(t *testing.T, f *fakeModel) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient("test-key", logging.Discard(), WithBaseURL(srv.URL+"/"), WithModel("test-model"), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", logging.Discard())
	require.ErrorIs(t, err, ErrDisabled)

	c := New("", logging.Discard())
	assert.False(t, c.Enabled())
	assert.IsType(t, Disabled{}, c)
}

func TestSummarize(t *testing.T) {
	f := &fakeModel{content: "  Undangan rapat koordinasi kurikulum pada hari Senin.  "}
	c := newTestClient(t, f)

	got := c.Summarize(context.Background(), "Dengan hormat, ...")
	assert.Equal(t, "Undangan rapat koordinasi kurikulum pada hari Senin.", got)
	assert.Equal(t, "test-model", f.last["model"])
	assert.NotEmpty(t, f.header.Get("X-Request-Id"))

	msgs := f.last["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].(map[string]any)["content"], "Dengan hormat, ...")
}

func TestSummarize_Sentinels(t *testing.T) {
	empty := newTestClient(t, &fakeModel{content: "   "})
	assert.Equal(t, SummaryFailed, empty.Summarize(context.Background(), "x"))

	failing := &fakeModel{status: http.StatusInternalServerError}
	c := newTestClient(t, failing)
	assert.Equal(t, SummaryError, c.Summarize(context.Background(), "x"))
	assert.Equal(t, int32(1), failing.calls.Load(), "no retries")
}

func TestExtractFromText(t *testing.T) {
	f := &fakeModel{content: `{"number":"001/UND/2024","sender":"Dinas A","receiver":"Sekolah","title":"Undangan","category":"Undangan"}`}
	c := newTestClient(t, f)

	got, err := c.ExtractFromText(context.Background(), "isi surat")
	require.NoError(t, err)
	assert.Equal(t, models.ExtractedFields{Number: "001/UND/2024", Sender: "Dinas A", Receiver: "Sekolah", Title: "Undangan", Category: "Undangan"}, got)

	rf := f.last["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", rf["type"])
}

func TestExtractFromImage(t *testing.T) {
	f := &fakeModel{content: "```json\n{\"title\":\"Pemberitahuan\",\"date\":\"2024-02-12\",\"content\":\"isi\"}\n```"}
	c := newTestClient(t, f)

	got, err := c.ExtractFromImage(context.Background(), "AQID", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Pemberitahuan", got.Title)
	assert.Equal(t, "2024-02-12", got.Date)
	assert.Equal(t, "isi", got.Content)
	assert.Empty(t, got.Number)

	msgs := f.last["messages"].([]any)
	parts := msgs[0].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	img := parts[0].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/png;base64,AQID", img["url"])
}

func TestExtract_Errors(t *testing.T) {
	bad := newTestClient(t, &fakeModel{content: "not json"})
	_, err := bad.ExtractFromImage(context.Background(), "AQID", "image/png")
	require.Error(t, err)

	down := newTestClient(t, &fakeModel{status: http.StatusUnauthorized})
	_, err = down.ExtractFromText(context.Background(), "x")
	require.Error(t, err)

	empty := newTestClient(t, &fakeModel{content: ""})
	got, err := empty.ExtractFromText(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestDisabled(t *testing.T) {
	var d Disabled
	assert.Equal(t, SummaryError, d.Summarize(context.Background(), "x"))
	_, err := d.ExtractFromText(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = d.ExtractFromImage(context.Background(), "x", "image/png")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripFence(` {"a":1} `))
}
