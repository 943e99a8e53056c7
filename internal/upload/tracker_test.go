package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	toasts []string
	alerts []string
}

func (s *stubNotifier) Toast(msg string) { s.toasts = append(s.toasts, msg) }
func (s *stubNotifier) Alert(msg string) { s.alerts = append(s.alerts, msg) }

func fileOf(name, content string) File {
	return File{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(content)), nil },
	}
}

// sendHalves reports the file as half sent and then fully sent.
func sendHalves(failing string) SendFunc[string] {
	return func(ctx context.Context, f File, body io.Reader, progress func(float64)) (string, error) {
		if f.Name == failing {
			return "", errors.New("413 too large")
		}
		if _, err := io.ReadAll(body); err != nil {
			return "", err
		}
		progress(0.5)
		progress(1)
		return "uploaded/" + f.Name, nil
	}
}

func TestUploadSequentialWithOneFailure(t *testing.T) {
	var collection []string
	var events []Progress
	var order []string
	resynced := 0
	n := &stubNotifier{}

	tr := NewTracker(Config[string]{
		Send: func(ctx context.Context, f File, body io.Reader, progress func(float64)) (string, error) {
			order = append(order, f.Name)
			return sendHalves("b.pdf")(ctx, f, body, progress)
		},
		Insert:     func(s string) { collection = append([]string{s}, collection...) },
		Resync:     func(ctx context.Context) { resynced++ },
		OnProgress: func(p Progress) { events = append(events, p) },
		Notifier:   n,
	})

	res := tr.Upload(context.Background(), []File{
		fileOf("a.png", "aaaa"), fileOf("b.pdf", "bbbb"), fileOf("c.mp4", "cccc"),
	})

	assert.Equal(t, []string{"a.png", "b.pdf", "c.mp4"}, order)
	assert.Equal(t, []string{"uploaded/a.png", "uploaded/c.mp4"}, res.Uploaded)
	assert.Equal(t, []string{"b.pdf"}, res.Failed)
	assert.Equal(t, []string{"uploaded/c.mp4", "uploaded/a.png"}, collection, "newest first")

	require.Len(t, n.alerts, 1)
	assert.Contains(t, n.alerts[0], "b.pdf")
	assert.NotContains(t, n.alerts[0], "a.png")
	assert.Equal(t, []string{"2 files uploaded."}, n.toasts)
	assert.Equal(t, 1, resynced)

	require.NotEmpty(t, events)
	assert.Equal(t, Progress{Current: 1, Total: 3, FileName: "a.png", Fraction: 0}, events[0])
	assert.InDelta(t, 0.5/3, events[1].Fraction, 1e-9)
	assert.Equal(t, Progress{Current: 2, Total: 3, FileName: "b.pdf", Fraction: 1.0 / 3}, events[3])

	done := events[len(events)-2]
	assert.True(t, done.Done)
	assert.Equal(t, 1.0, done.Fraction)
	assert.Equal(t, Progress{}, events[len(events)-1], "progress is cleared at the end")

	for i := 1; i < len(events)-1; i++ {
		assert.GreaterOrEqual(t, events[i].Fraction, events[i-1].Fraction)
	}
}

func TestUploadOpenFailureContinues(t *testing.T) {
	n := &stubNotifier{}
	tr := NewTracker(Config[string]{Send: sendHalves(""), Notifier: n})
	broken := File{Name: "gone.png", Open: func() (io.ReadCloser, error) { return nil, errors.New("no such file") }}

	res := tr.Upload(context.Background(), []File{broken, fileOf("ok.png", "x")})
	assert.Equal(t, []string{"gone.png"}, res.Failed)
	assert.Len(t, res.Uploaded, 1)
	assert.Equal(t, []string{"Failed to upload: gone.png"}, n.alerts)
}

func TestUploadHoldsBeforeClearing(t *testing.T) {
	var clearedAt, doneAt time.Time
	tr := NewTracker(Config[string]{
		Send: sendHalves(""),
		Hold: 20 * time.Millisecond,
		OnProgress: func(p Progress) {
			switch {
			case p.Done:
				doneAt = time.Now()
			case p == (Progress{}):
				clearedAt = time.Now()
			}
		},
	})
	tr.Upload(context.Background(), []File{fileOf("a.png", "a")})
	assert.GreaterOrEqual(t, clearedAt.Sub(doneAt), 20*time.Millisecond)
}

func TestUploadCancelledSkipsRestAndResync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	resynced := false
	tr := NewTracker(Config[string]{
		Send: func(c context.Context, f File, body io.Reader, progress func(float64)) (string, error) {
			cancel()
			return f.Name, nil
		},
		Resync: func(context.Context) { resynced = true },
		Hold:   time.Hour,
	})

	res := tr.Upload(ctx, []File{fileOf("a", "1"), fileOf("b", "2")})
	assert.Equal(t, []string{"a"}, res.Uploaded)
	assert.Equal(t, []string{"b"}, res.Failed)
	assert.False(t, resynced)
}

func TestUploadEmptyBatch(t *testing.T) {
	called := false
	tr := NewTracker(Config[string]{Send: sendHalves(""), OnProgress: func(Progress) { called = true }})
	res := tr.Upload(context.Background(), nil)
	assert.Empty(t, res.Uploaded)
	assert.False(t, called)
}
