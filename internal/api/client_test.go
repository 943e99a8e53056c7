package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/cmsadmin/internal/domain"
)

type stubTokens struct {
	mu      sync.Mutex
	token   string
	cleared bool
}

func (s *stubTokens) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *stubTokens) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared = true
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *stubTokens) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	tokens := &stubTokens{token: "tok"}
	c, err := New(srv.URL+"/api", tokens)
	require.NoError(t, err)
	return c, tokens
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", &stubTokens{})
	assert.Error(t, err)
	_, err = New("localhost", &stubTokens{})
	assert.Error(t, err)
}

func TestRequestHeaders(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/applications", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "weld", r.URL.Query().Get("search"))
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.False(t, r.URL.Query().Has("priority"), "empty filters are not sent")
		_, _ = w.Write([]byte(`{"data":[],"pagination":{"totalPages":3}}`))
	})

	_, err := c.ListApplications(context.Background(), ListParams{
		Page: 2, Limit: 10, Search: "weld",
		Filters: map[string]string{"status": "pending", "priority": ""},
	})
	require.NoError(t, err)
}

func TestNoTokenSendsNothing(t *testing.T) {
	called := false
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	tokens.Clear()

	_, err := c.ListProducts(context.Background(), ListParams{Page: 1})
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, called)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token expired"}`))
	})

	_, err := c.ListProducts(context.Background(), ListParams{Page: 1})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Token expired", Message(err, "fallback"))
	assert.True(t, tokens.cleared)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"Application not found"}`, "Application not found"},
		{"message field", `{"message":"Invalid status"}`, "Invalid status"},
		{"nested error", `{"error":{"message":"Bad input"}}`, "Bad input"},
		{"not json", `<html>oops</html>`, "Failed to update application status"},
		{"empty", ``, "Failed to update application status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.UpdateApplication(context.Background(), "a1", ApplicationUpdate{})
			require.Error(t, err)
			assert.Equal(t, tt.want, Message(err, "Failed to update application status"))
		})
	}
}

func TestMessageOnNetworkError(t *testing.T) {
	c, err := New("http://localhost:99999/api", &stubTokens{token: "tok"})
	require.NoError(t, err)
	err = c.DeleteCareer(context.Background(), "j1")
	require.Error(t, err)
	assert.Equal(t, "Failed to delete", Message(err, "Failed to delete"))
}

func TestUpdateApplicationDecodesShapes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantID string
	}{
		{"top level", `{"id":"a1","status":"shortlisted"}`, "a1"},
		{"under data", `{"success":true,"data":{"id":"a1","status":"shortlisted"}}`, "a1"},
		{"under resource key", `{"application":{"id":"a1","status":"shortlisted"}}`, "a1"},
		{"bare success", `{"success":true}`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				var got map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				assert.Equal(t, "shortlisted", got["status"])
				_, _ = w.Write([]byte(tt.body))
			})
			status := domain.StatusShortlisted
			app, err := c.UpdateApplication(context.Background(), "a1", ApplicationUpdate{Status: &status})
			require.NoError(t, err)
			if tt.wantID == "" {
				assert.Nil(t, app)
				return
			}
			require.NotNil(t, app)
			assert.Equal(t, tt.wantID, app.ID)
			assert.Equal(t, domain.StatusShortlisted, app.Status)
		})
	}
}

func TestListPaginationKeys(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantItems int
		wantPages int
		wantMore  bool
	}{
		{"data and totalPages", `{"data":[{"id":"1"},{"id":"2"}],"pagination":{"page":1,"totalPages":4,"total":8}}`, 2, 4, true},
		{"items and pages", `{"items":[{"id":"1"}],"pagination":{"page":2,"pages":2}}`, 1, 2, false},
		{"top level pagination", `{"products":[{"id":"1"}],"totalPages":5,"page":1}`, 1, 5, true},
		{"nested under data", `{"data":{"items":[{"id":"1"}],"pagination":{"pages":3}}}`, 1, 3, true},
		{"hasMore wins", `{"data":[{"id":"1"}],"pagination":{"totalPages":1},"hasMore":true}`, 1, 1, true},
		{"bare array", `[{"id":"1"},{"id":"2"},{"id":"3"}]`, 3, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			page, err := c.ListProducts(context.Background(), ListParams{Page: 1})
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantMore, page.HasMore)
		})
	}
}

func TestMediaIDFallsBackToPath(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			assert.Equal(t, "/api/media/uploads%2Fa.png", r.URL.EscapedPath())
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"url":"/uploads/a.png","path":"uploads/a.png"}],"hasMore":false}`))
	})
	page, err := c.ListMedia(context.Background(), ListParams{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "uploads/a.png", page.Items[0].ID)

	require.NoError(t, c.DeleteMedia(context.Background(), page.Items[0].ID))
}

func TestReorderLeadership(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/leadership/reorder", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"order":["m2","m1","m3"]}`, string(b))
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.ReorderLeadership(context.Background(), []string{"m2", "m1", "m3"}))
}

func TestDashboardStatsShapes(t *testing.T) {
	for _, body := range []string{
		`{"totalProducts":4,"activeJobs":2}`,
		`{"success":true,"data":{"totalProducts":4,"activeJobs":2}}`,
		`{"stats":{"totalProducts":4,"activeJobs":2}}`,
	} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		stats, err := c.DashboardStats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalProducts, body)
		assert.Equal(t, 2, stats.ActiveJobs, body)
	}
}

func TestUploadMediaStreamsMultipart(t *testing.T) {
	content := strings.Repeat("x", 64*1024)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/media/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		b, _ := io.ReadAll(file)
		assert.Equal(t, content, string(b))
		assert.Equal(t, "brochure.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"/uploads/brochure.pdf","type":"document"}}`))
	})

	var mu sync.Mutex
	var fractions []float64
	item, err := c.UploadMedia(context.Background(), UploadFile{
		Name: "brochure.pdf", MimeType: "application/pdf",
		Size: int64(len(content)), Body: strings.NewReader(content),
	}, func(f float64) {
		mu.Lock()
		fractions = append(fractions, f)
		mu.Unlock()
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, "/uploads/brochure.pdf", item.URL)
	assert.Equal(t, "/uploads/brochure.pdf", item.ID)
	assert.Equal(t, "brochure.pdf", item.Name)
	assert.Equal(t, int64(len(content)), item.Size)
	require.NotEmpty(t, fractions)
	assert.InDelta(t, 1.0, fractions[len(fractions)-1], 0.0001)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
}

func TestUploadMediaWithoutURLFails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	_, err := c.UploadMedia(context.Background(), UploadFile{Name: "a.txt", Body: strings.NewReader("a"), Size: 1}, nil)
	assert.Error(t, err)
}

func TestUploadMediaNoToken(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	tokens.Clear()
	_, err := c.UploadMedia(context.Background(), UploadFile{Name: "a.txt", Body: strings.NewReader("a"), Size: 1}, nil)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestListKeepsRowsWithUnrecognisedStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"a1","status":"pending"},{"id":"a2","status":"withdrawn"}],"pagination":{"totalPages":1}}`))
	})
	page, err := c.ListApplications(context.Background(), ListParams{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, domain.StatusPending, page.Items[0].Status)
	assert.Equal(t, domain.StatusUnknown, page.Items[1].Status)
}

// trackedReader records reads that happen after the caller considers the
// upload finished.
type trackedReader struct {
	mu       sync.Mutex
	r        io.Reader
	finished bool
	late     bool
}

func (t *trackedReader) Read(p []byte) (int, error) {
	t.mu.Lock()
	if t.finished {
		t.late = true
	}
	t.mu.Unlock()
	return t.r.Read(p)
}

func (t *trackedReader) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished = true
}

func TestUploadMediaStopsReadingBodyBeforeReturning(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"error":"file too large"}`))
	})
	body := &trackedReader{r: strings.NewReader(strings.Repeat("x", 8<<20))}

	_, err := c.UploadMedia(context.Background(), UploadFile{Name: "big.bin", Body: body, Size: 8 << 20}, nil)
	require.Error(t, err)
	body.finish()

	time.Sleep(50 * time.Millisecond)
	body.mu.Lock()
	defer body.mu.Unlock()
	assert.False(t, body.late, "body read after UploadMedia returned")
}
