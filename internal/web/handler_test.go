package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billbook/internal/auth"
	"github.com/mmynk/billbook/internal/metrics"
	"github.com/mmynk/billbook/internal/middleware"
	"github.com/mmynk/billbook/internal/service"
	"github.com/mmynk/billbook/internal/storage"
	"github.com/mmynk/billbook/internal/storage/sqlite"
)

type testApp struct {
	server *httptest.Server
	router http.Handler
	store  *sqlite.SQLiteStore
}

func newTestApp(t *testing.T, limit middleware.RateLimitConfig) *testApp {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := metrics.NewPrometheus()

	sessions := auth.NewSessionManager(store, store, auth.NewJWTManager("test-secret"), time.Hour)
	accounts := service.NewAccountService(auth.NewPasswordAuthenticator(store, auth.SchemePlain), sessions, recorder)
	h := NewHandler(
		accounts,
		service.NewGroupService(store, recorder),
		service.NewBillService(store, recorder),
		store,
		recorder,
		logger,
		false,
	)

	router := NewRouter(h, RouterConfig{
		Sessions:       sessions,
		Metrics:        recorder,
		MetricsHandler: recorder.Handler(),
		Logger:         logger,
		IsDevelopment:  true,
		LoginRateLimit: limit,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testApp{server: server, router: router, store: store}
}

var generousLimit = middleware.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000}

// client returns a browser-like client that keeps cookies but does not
// follow redirects, so tests can assert on them.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func registerValues(name, email, password, confirm string) url.Values {
	return url.Values{
		"name":      {name},
		"email":     {email},
		"password":  {password},
		"password2": {confirm},
	}
}

// loggedInClient registers and logs in a fresh user.
func (a *testApp) loggedInClient(t *testing.T, email string) *http.Client {
	t.Helper()
	c := a.client(t)

	resp, _ := a.post(t, c, "/register", registerValues("Tester", email, "pw", "pw"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = a.post(t, c, "/login", url.Values{"email": {email}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/groups", resp.Header.Get("Location"))
	return c
}

func TestRegister(t *testing.T) {
	app := newTestApp(t, generousLimit)
	c := app.client(t)

	resp, _ := app.post(t, c, "/register", registerValues("Alice", "alice@example.com", "pw", "pw"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?registered=1", resp.Header.Get("Location"))

	t.Run("notice after redirect", func(t *testing.T) {
		resp, body := app.get(t, c, "/login?registered=1")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Registered successfully!")
	})

	t.Run("same email rejected", func(t *testing.T) {
		resp, body := app.post(t, c, "/register", registerValues("Alice Again", "alice@example.com", "other", "other"))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, body, "Email already in use")
		assert.Contains(t, body, `value="Alice Again"`)
	})

	t.Run("mismatched passwords create no user", func(t *testing.T) {
		resp, body := app.post(t, c, "/register", registerValues("Bob", "bob@example.com", "one", "two"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "Passwords do not match")

		_, err := app.store.GetUserByEmail(context.Background(), "bob@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestLogin(t *testing.T) {
	app := newTestApp(t, generousLimit)
	c := app.client(t)

	resp, _ := app.post(t, c, "/register", registerValues("Alice", "alice@example.com", "s3cret", "s3cret"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{name: "wrong password", email: "alice@example.com", password: "S3cret", wantStatus: http.StatusUnauthorized},
		{name: "unknown email", email: "eve@example.com", password: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "empty password", email: "alice@example.com", password: "", wantStatus: http.StatusUnauthorized},
		{name: "exact match", email: "alice@example.com", password: "s3cret", wantStatus: http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := app.post(t, app.client(t), "/login", url.Values{
				"email":    {tt.email},
				"password": {tt.password},
			})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, body, "Invalid email or password")
				return
			}

			var session *http.Cookie
			for _, cookie := range resp.Cookies() {
				if cookie.Name == auth.CookieName {
					session = cookie
				}
			}
			require.NotNil(t, session, "expected session cookie")
			assert.True(t, session.HttpOnly)
			assert.Equal(t, "/groups", resp.Header.Get("Location"))
		})
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp(t, generousLimit)
	c := app.client(t)

	for _, path := range []string{"/groups", "/groups/anything/bills"} {
		resp, _ := app.get(t, c, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)

		resp, _ = app.post(t, c, path, url.Values{"name": {"x"}})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	t.Run("forged cookie", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, app.server.URL+"/groups", nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "forged"})

		resp, err := c.Do(req)
		require.NoError(t, err)
		readBody(t, resp)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	})
}

func TestGroups(t *testing.T) {
	app := newTestApp(t, generousLimit)
	c := app.loggedInClient(t, "alice@example.com")

	resp, body := app.get(t, c, "/groups")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No groups yet.")

	resp, body = app.post(t, c, "/groups", url.Values{"name": {"Roommates"}, "description": {"Rent & utilities"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Roommates")
	assert.Contains(t, body, "Rent &amp; utilities")

	resp, body = app.post(t, c, "/groups", url.Values{"name": {""}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Group name is required")

	t.Run("listing is not scoped to the owner", func(t *testing.T) {
		other := app.loggedInClient(t, "bob@example.com")
		_, body := app.get(t, other, "/groups")
		assert.Contains(t, body, "Roommates")
	})
}

func createGroup(t *testing.T, app *testApp, c *http.Client, name string) string {
	t.Helper()
	resp, _ := app.post(t, c, "/groups", url.Values{"name": {name}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	groups, err := app.store.ListGroups(context.Background())
	require.NoError(t, err)
	for _, g := range groups {
		if g.Name == name {
			return g.ID
		}
	}
	t.Fatalf("group %q not stored", name)
	return ""
}

func TestBills(t *testing.T) {
	app := newTestApp(t, generousLimit)
	c := app.loggedInClient(t, "alice@example.com")
	groupID := createGroup(t, app, c, "Roommates")
	billsPath := "/groups/" + groupID + "/bills"

	t.Run("created bill listed unchanged", func(t *testing.T) {
		resp, body := app.post(t, c, billsPath, url.Values{
			"description": {"Groceries"},
			"date":        {"2024-01-01"},
			"amount":      {"42.50"},
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Groceries")

		resp, body = app.get(t, c, billsPath)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "<td>2024-01-01</td>")
		assert.Contains(t, body, "<td>Groceries</td>")
		assert.Contains(t, body, ">42.50</td>")

		bills, err := app.store.ListBillsByGroup(context.Background(), groupID)
		require.NoError(t, err)
		require.Len(t, bills, 1)
		assert.Equal(t, "42.50", bills[0].AmountString())
		assert.Equal(t, "2024-01-01", bills[0].DateString())
	})

	t.Run("invalid input re-renders with error", func(t *testing.T) {
		resp, body := app.post(t, c, billsPath, url.Values{
			"description": {"Taxi"},
			"date":        {"yesterday"},
			"amount":      {"12"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "Date must be in YYYY-MM-DD format")
		assert.Contains(t, body, `value="Taxi"`)

		resp, body = app.post(t, c, billsPath, url.Values{
			"description": {"Taxi"},
			"date":        {"2024-01-02"},
			"amount":      {"twelve"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "Amount must be a positive number")

		for _, amount := range []string{"1e100000000", "-5", "0"} {
			resp, _ = app.post(t, c, billsPath, url.Values{
				"description": {"Taxi"},
				"date":        {"2024-01-02"},
				"amount":      {amount},
			})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, amount)
		}

		bills, err := app.store.ListBillsByGroup(context.Background(), groupID)
		require.NoError(t, err)
		assert.Len(t, bills, 1)
	})

	t.Run("unknown group is not found", func(t *testing.T) {
		resp, _ := app.post(t, c, "/groups/does-not-exist/bills", url.Values{
			"description": {"Ghost"},
			"date":        {"2024-01-01"},
			"amount":      {"1.00"},
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = app.get(t, c, "/groups/does-not-exist/bills")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, generousLimit)
	c := app.loggedInClient(t, "alice@example.com")

	serverURL, err := url.Parse(app.server.URL)
	require.NoError(t, err)
	var token string
	for _, cookie := range c.Jar.Cookies(serverURL) {
		if cookie.Name == auth.CookieName {
			token = cookie.Value
		}
	}
	require.NotEmpty(t, token)

	resp, _ := app.get(t, c, "/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = app.get(t, c, "/groups")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// Replaying the old cookie must not work either.
	req, err := http.NewRequest(http.MethodGet, app.server.URL+"/groups", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	resp, err = app.client(t).Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	app := newTestApp(t, middleware.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})
	c := app.client(t)

	form := url.Values{"email": {"a@example.com"}, "password": {"x"}}
	for range 2 {
		resp, _ := app.post(t, c, "/login", form)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, body := app.post(t, c, "/login", form)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Too many attempts")

	// Pages themselves are not throttled.
	resp, _ = app.get(t, c, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOperationalEndpoints(t *testing.T) {
	app := newTestApp(t, generousLimit)
	c := app.client(t)

	resp, body := app.get(t, c, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", body)

	resp, body = app.get(t, c, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/login"`)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, _ = app.get(t, c, "/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = app.get(t, c, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `billbook_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestOversizedBody(t *testing.T) {
	app := newTestApp(t, generousLimit)
	big := strings.Repeat("x", 1<<20+1)

	t.Run("declared length", func(t *testing.T) {
		resp, body := app.post(t, app.client(t), "/login", url.Values{"email": {big}})
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Contains(t, body, "Request too large")
	})

	t.Run("streamed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/register", io.NopCloser(strings.NewReader("name="+big)))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		app.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Contains(t, rec.Body.String(), "Request too large")
	})
}
