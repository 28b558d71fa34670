package http_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"clinic-inventory/config"
	deliveryHttp "clinic-inventory/internal/delivery/http"
	"clinic-inventory/internal/delivery/http/handler"
	"clinic-inventory/internal/delivery/http/middleware"
	"clinic-inventory/internal/domain/entity"
	"clinic-inventory/internal/infrastructure/database"
	"clinic-inventory/internal/repository"
	"clinic-inventory/internal/session"
	"clinic-inventory/internal/usecase"
	"clinic-inventory/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	server *httptest.Server
	db     *gorm.DB
}

// newTestApp assembles the full HTTP stack against an in-memory database and
// redis, mirroring the production wiring.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	sessions := session.NewService(config.SessionConfig{
		Secret: "router-test-secret",
		Expiry: time.Hour,
	}, redisClient)
	customValidator := validator.NewValidator()

	userRepo := repository.NewUserRepository()
	drugRepo := repository.NewDrugRepository()
	messageRepo := repository.NewMessageRepository()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, sessions)
	drugUsecase := usecase.NewDrugUsecase(db, log, drugRepo)
	messageUsecase := usecase.NewMessageUsecase(db, log, messageRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, drugRepo, messageRepo)

	registry := prometheus.NewRegistry()
	router := deliveryHttp.NewRouter(
		handler.NewAuthHandler(authUsecase, customValidator, sessions),
		handler.NewDrugHandler(drugUsecase, customValidator, sessions),
		handler.NewMessageHandler(messageUsecase, customValidator, sessions),
		handler.NewDashboardHandler(dashboardUsecase, sessions),
		middleware.NewSessionMiddleware(db, userRepo, sessions),
		middleware.NewCORSMiddleware(),
		middleware.NewMetricsMiddleware(registry),
		middleware.NewRateLimitMiddleware(rate.Limit(1000), 1000),
		registry,
	)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)

	return &testApp{server: server, db: db}
}

// newBrowser returns a cookie-carrying client that does not follow redirects,
// so tests can assert on Location headers.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func get(t *testing.T, browser *http.Client, rawURL string) *http.Response {
	t.Helper()

	resp, err := browser.Get(rawURL)
	require.NoError(t, err)
	return resp
}

func postForm(t *testing.T, browser *http.Client, rawURL string, form url.Values) *http.Response {
	t.Helper()

	resp, err := browser.PostForm(rawURL, form)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) envelope {
	t.Helper()

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success, "expected a success envelope, got message %q", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, out))
	return env
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func signupForm(username, email, role string) url.Values {
	return url.Values{
		"username":         {username},
		"email":            {email},
		"password":         {"Secur3!pass"},
		"confirm_password": {"Secur3!pass"},
		"role":             {role},
	}
}

// signupAndLogin registers an account and logs it in through the HTTP surface.
func signupAndLogin(t *testing.T, app *testApp, browser *http.Client, username, role string) {
	t.Helper()

	resp := postForm(t, browser, app.server.URL+"/signup", signupForm(username, username+"@clinic.test", role))
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?notice="))

	resp = postForm(t, browser, app.server.URL+"/login", url.Values{
		"username": {username},
		"password": {"Secur3!pass"},
	})
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func drugForm(name string, quantity int, expiry time.Time, batch string) url.Values {
	return url.Values{
		"name":         {name},
		"description":  {"e2e seeded"},
		"quantity":     {fmt.Sprint(quantity)},
		"price":        {"9.99"},
		"expiry_date":  {expiry.Format("2006-01-02")},
		"batch_number": {batch},
		"supplier":     {"Acme Pharma"},
	}
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&entity.User{}).Count(&n).Error)
	return n
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)
	browser := newBrowser(t)

	resp := get(t, browser, app.server.URL+"/health")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "ok"}`, string(body))
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp(t)
	browser := newBrowser(t)

	for _, path := range []string{"/dashboard", "/drugs", "/messages", "/api/expiry_alerts"} {
		resp := get(t, browser, app.server.URL+path)
		drain(resp)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestSignupLoginAndDrugFlow(t *testing.T) {
	app := newTestApp(t)
	browser := newBrowser(t)

	resp := postForm(t, browser, app.server.URL+"/signup", signupForm("house", "house@clinic.test", "doctor"))
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, "/login?notice="))

	// The login page echoes the notice carried across the redirect.
	resp = get(t, browser, app.server.URL+location)
	var loginPage map[string]string
	decodeData(t, resp, &loginPage)
	assert.Equal(t, "Registration successful! Please login.", loginPage["notice"])

	resp = postForm(t, browser, app.server.URL+"/login", url.Values{
		"username": {"house"},
		"password": {"Secur3!pass"},
	})
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))

	var dashboard struct {
		TotalDrugs int64    `json:"total_drugs"`
		LowStock   int64    `json:"low_stock"`
		Notices    []string `json:"notices"`
	}
	resp = get(t, browser, app.server.URL+"/dashboard")
	decodeData(t, resp, &dashboard)
	assert.Equal(t, int64(0), dashboard.TotalDrugs)
	assert.Contains(t, dashboard.Notices, "Login successful!")

	resp = postForm(t, browser, app.server.URL+"/add_drug", drugForm("Amoxicillin", 5, time.Now().AddDate(0, 0, 10), "B-9"))
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/drugs", resp.Header.Get("Location"))

	var drugs struct {
		Drugs []struct {
			Name       string `json:"name"`
			Quantity   int    `json:"quantity"`
			IsExpired  bool   `json:"is_expired"`
			IsLowStock bool   `json:"is_low_stock"`
			AddedBy    string `json:"added_by"`
		} `json:"drugs"`
		Notices []string `json:"notices"`
	}
	resp = get(t, browser, app.server.URL+"/drugs")
	decodeData(t, resp, &drugs)
	require.Len(t, drugs.Drugs, 1)
	assert.Equal(t, "Amoxicillin", drugs.Drugs[0].Name)
	assert.Equal(t, 5, drugs.Drugs[0].Quantity)
	assert.False(t, drugs.Drugs[0].IsExpired)
	assert.True(t, drugs.Drugs[0].IsLowStock)
	assert.Equal(t, "house", drugs.Drugs[0].AddedBy)
	assert.Contains(t, drugs.Notices, "Drug added successfully!")

	resp = get(t, browser, app.server.URL+"/dashboard")
	decodeData(t, resp, &dashboard)
	assert.Equal(t, int64(1), dashboard.TotalDrugs)
	assert.Equal(t, int64(1), dashboard.LowStock)

	// An expired low-quantity drug bumps both counters.
	resp = postForm(t, browser, app.server.URL+"/add_drug", drugForm("Expiron", 5, time.Now().AddDate(0, 0, -1), "B-0"))
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var after struct {
		TotalDrugs   int64 `json:"total_drugs"`
		ExpiredDrugs int64 `json:"expired_drugs"`
		LowStock     int64 `json:"low_stock"`
	}
	resp = get(t, browser, app.server.URL+"/dashboard")
	decodeData(t, resp, &after)
	assert.Equal(t, int64(2), after.TotalDrugs)
	assert.Equal(t, int64(1), after.ExpiredDrugs)
	assert.Equal(t, int64(2), after.LowStock)
}

func TestSignupDuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	browser := newBrowser(t)

	resp := postForm(t, browser, app.server.URL+"/signup", signupForm("house", "house@clinic.test", "doctor"))
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = postForm(t, browser, app.server.URL+"/signup", signupForm("house", "other@clinic.test", "nurse"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "Username already exists", env.Message)
	assert.Equal(t, int64(1), countUsers(t, app.db))
}

func TestSignupPasswordMismatch(t *testing.T) {
	app := newTestApp(t)
	browser := newBrowser(t)

	form := signupForm("house", "house@clinic.test", "doctor")
	form.Set("confirm_password", "Different1!pass")
	resp := postForm(t, browser, app.server.URL+"/signup", form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "Passwords do not match", env.Message)
	assert.Equal(t, int64(0), countUsers(t, app.db))
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	browser := newBrowser(t)

	resp := postForm(t, browser, app.server.URL+"/signup", signupForm("house", "house@clinic.test", "doctor"))
	drain(resp)

	resp = postForm(t, browser, app.server.URL+"/login", url.Values{
		"username": {"house"},
		"password": {"Wrong1!password"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid username or password", env.Message)
}

func TestMessageDeleteAuthorization(t *testing.T) {
	app := newTestApp(t)

	pharmacist := newBrowser(t)
	signupAndLogin(t, app, pharmacist, "pharm", "pharmacist")
	resp := postForm(t, pharmacist, app.server.URL+"/add_message", url.Values{
		"title":     {"Restock fridge"},
		"content":   {"Insulin delivery arrives at noon."},
		"is_urgent": {"on"},
	})
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	nurse := newBrowser(t)
	signupAndLogin(t, app, nurse, "cameron", "nurse")

	var messages struct {
		Messages []struct {
			ID       uint   `json:"id"`
			Title    string `json:"title"`
			IsUrgent bool   `json:"is_urgent"`
			Sender   string `json:"sender"`
		} `json:"messages"`
		Notices []string `json:"notices"`
	}
	resp = get(t, nurse, app.server.URL+"/messages")
	decodeData(t, resp, &messages)
	require.Len(t, messages.Messages, 1)
	assert.True(t, messages.Messages[0].IsUrgent)
	assert.Equal(t, "pharm", messages.Messages[0].Sender)
	id := messages.Messages[0].ID

	// Neither the sender nor a pharmacist: the delete is refused and the
	// message survives.
	resp = get(t, nurse, fmt.Sprintf("%s/delete_message/%d", app.server.URL, id))
	drain(resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/messages", resp.Header.Get("Location"))

	resp = get(t, nurse, app.server.URL+"/messages")
	decodeData(t, resp, &messages)
	assert.Len(t, messages.Messages, 1)
	assert.Contains(t, messages.Notices, "You are not authorized to delete this message")

	resp = get(t, pharmacist, fmt.Sprintf("%s/delete_message/%d", app.server.URL, id))
	drain(resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp = get(t, pharmacist, app.server.URL+"/messages")
	decodeData(t, resp, &messages)
	assert.Empty(t, messages.Messages)
	assert.Contains(t, messages.Notices, "Message deleted successfully!")
}

func TestExpiryAlertsFeed(t *testing.T) {
	app := newTestApp(t)
	browser := newBrowser(t)
	signupAndLogin(t, app, browser, "house", "doctor")

	now := time.Now()
	for _, d := range []struct {
		name   string
		expiry time.Time
		batch  string
	}{
		{"Overdue", now.AddDate(0, 0, -1), "B-1"},
		{"DueToday", now, ""},
		{"Future", now.AddDate(0, 0, 40), "B-3"},
	} {
		resp := postForm(t, browser, app.server.URL+"/add_drug", drugForm(d.name, 20, d.expiry, d.batch))
		drain(resp)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	resp := get(t, browser, app.server.URL+"/api/expiry_alerts")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The feed is a bare array, not the usual envelope.
	var alerts []struct {
		Name            string  `json:"name"`
		ExpiryDate      string  `json:"expiry_date"`
		DaysUntilExpiry int     `json:"days_until_expiry"`
		BatchNumber     *string `json:"batch_number"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&alerts))
	require.Len(t, alerts, 2)
	assert.Equal(t, "Overdue", alerts[0].Name)
	assert.Equal(t, -1, alerts[0].DaysUntilExpiry)
	require.NotNil(t, alerts[0].BatchNumber)
	assert.Equal(t, "B-1", *alerts[0].BatchNumber)
	assert.Equal(t, "DueToday", alerts[1].Name)
	assert.Equal(t, 0, alerts[1].DaysUntilExpiry)
	assert.Nil(t, alerts[1].BatchNumber)
}

func TestLogoutRevokesSession(t *testing.T) {
	app := newTestApp(t)
	browser := newBrowser(t)
	signupAndLogin(t, app, browser, "house", "doctor")

	resp := get(t, browser, app.server.URL+"/logout")
	drain(resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?notice="))

	resp = get(t, browser, app.server.URL+"/dashboard")
	drain(resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}
