package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/arsip/internal/app"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/repositories/kv"
	"github.com/dmitrijs2005/arsip/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	summary   string
	fields    models.ExtractedFields
	err       error
	gate      chan struct{} // when set, Summarize blocks until closed
	started   chan struct{}
	startOnce sync.Once
	calls     atomic.Int32
	lastMime  string
}

func (f *fakeAI) Enabled() bool { return true }

func (f *fakeAI) Summarize(ctx context.Context, content string) string {
	f.calls.Add(1)
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.summary
}

func (f *fakeAI) ExtractFromText(ctx context.Context, text string) (models.ExtractedFields, error) {
	f.calls.Add(1)
	return f.fields, f.err
}

func (f *fakeAI) ExtractFromImage(ctx context.Context, data, mime string) (models.ExtractedFields, error) {
	f.calls.Add(1)
	f.lastMime = mime
	return f.fields, f.err
}

type fixture struct {
	state *app.State
	repo  *kv.MemoryRepository
	ai    *fakeAI
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := kv.NewMemoryRepository()
	state, err := app.Load(context.Background(), store.New(repo, logging.Discard()), logging.Discard())
	require.NoError(t, err)

	f := &fixture{state: state, repo: repo, ai: &fakeAI{summary: "Ringkasan singkat."}}
	f.svc = New(state, f.ai, nil, Options{}, logging.Discard())
	return f
}

func admin() models.User { return models.DefaultUsers()[0].Public() }
func staff() models.User { return models.DefaultUsers()[1].Public() }

func draft() models.Letter {
	return models.Letter{
		Number:   "010/UND/2024",
		Title:    "Undangan Workshop",
		Sender:   "Dinas Pendidikan",
		Receiver: "Sekolah",
		Content:  "Mengundang guru untuk mengikuti workshop.",
	}
}
