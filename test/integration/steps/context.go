// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/infra/dependency"
	"github.com/expense-tracker/backend/internal/integration/email"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
	"github.com/expense-tracker/backend/test/integration/mock"
)

const (
	testJWTSecret    = "test-jwt-secret-key-for-testing-purposes"
	testPassword     = "s3cure-pass"
	loginMaxAttempts = 5
)

// app is the running application shared by every scenario.
type app struct {
	server   *httptest.Server
	db       *mock.Db
	redis    *mock.Redis
	clock    *mock.Time
	sender   *email.RecordingSender
	injector *dependency.Injector
}

var suiteApp *app

// session is a registered user and their current tokens.
type session struct {
	userID       uuid.UUID
	accessToken  string
	refreshToken string
}

// TestContext holds the test state for each scenario.
type TestContext struct {
	app *app

	headers     map[string]string
	accessToken string
	current     *session
	users       map[string]*session

	lastExpenseID uuid.UUID
	sentBaseline  int

	response *response
}

type response struct {
	status int
	header http.Header
	raw    []byte
	body   any
}

// InitializeTestSuite starts the application before any scenario runs.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		a, err := startApp()
		if err != nil {
			panic(fmt.Sprintf("failed to start application: %v", err))
		}
		suiteApp = a
	})

	ctx.AfterSuite(func() {
		if suiteApp == nil {
			return
		}
		suiteApp.server.Close()
		_ = suiteApp.injector.Close()
		suiteApp.redis.Close()
		_ = suiteApp.db.Close()
	})
}

func startApp() (*app, error) {
	db, err := mock.NewDb(map[string]any{
		"users":          &model.UserModel{},
		"refresh_tokens": &model.RefreshTokenModel{},
		"expenses":       &model.ExpenseModel{},
		"email_queue":    &model.EmailQueueModel{},
	})
	if err != nil {
		return nil, err
	}

	redis, err := mock.NewRedis()
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		JWT: config.JWTConfig{
			Secret:             testJWTSecret,
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			Backend:     config.RateLimitRedis,
			MaxAttempts: loginMaxAttempts,
			Window:      time.Minute,
		},
		Email: config.EmailConfig{
			AppBaseURL:   "http://app.test",
			PollInterval: time.Second,
			BatchSize:    50,
		},
	}

	clock := mock.NewTime()
	sender := email.NewRecordingSender()

	injector, err := dependency.NewInjector(cfg, db.DbConn, dependency.Options{
		Clock:       clock.Now,
		Redis:       redis.Client,
		EmailSender: sender,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		server:   httptest.NewServer(injector.Router.Setup(cfg.Server.Environment)),
		db:       db,
		redis:    redis,
		clock:    clock,
		sender:   sender,
		injector: injector,
	}, nil
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &TestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset(ctx)
	})

	// Background steps
	ctx.Given(`^the API server is running$`, tc.theAPIServerIsRunning)
	ctx.Given(`^today is "([^"]*)"$`, tc.todayIs)

	// User steps
	ctx.Given(`^I am registered as "([^"]*)"$`, tc.iAmRegisteredAs)
	ctx.Given(`^a user "([^"]*)" is registered$`, tc.aUserIsRegistered)
	ctx.Given(`^I am logged in as "([^"]*)"$`, tc.iAmLoggedInAs)

	// Expense steps
	ctx.Given(`^"([^"]*)" has the following expenses:$`, tc.hasTheFollowingExpenses)

	// Header steps
	ctx.Given(`^the header is empty$`, tc.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, tc.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, tc.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, tc.iSendARequestToWithBody)
	ctx.When(`^I send (\d+) "([^"]*)" requests to "([^"]*)" with body:$`, tc.iSendRequestsToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, tc.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, tc.theResponseFieldShouldExist)
	ctx.Then(`^the response header "([^"]*)" should be "([^"]*)"$`, tc.theResponseHeaderShouldBe)
	ctx.Then(`^the response should match json:$`, tc.theResponseShouldMatchJSON)

	// Side effect assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, tc.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values:$`, tc.theDbShouldContainObjectsInWithTheValues)
	ctx.Then(`^(\d+) welcome emails? should have been sent$`, tc.welcomeEmailsShouldHaveBeenSent)
}

func (t *TestContext) reset(ctx context.Context) error {
	if suiteApp == nil {
		return fmt.Errorf("application is not running")
	}

	t.app = suiteApp
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.current = nil
	t.users = make(map[string]*session)
	t.lastExpenseID = uuid.Nil
	t.response = nil
	t.sentBaseline = len(t.app.sender.Sent())

	t.app.clock.Reset()
	if err := t.app.redis.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}
	return t.app.db.Reset()
}

func (t *TestContext) theAPIServerIsRunning() error {
	resp, err := http.Get(t.app.server.URL + "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *TestContext) todayIs(date string) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	t.app.clock.SetCurrentTime(day.Add(12 * time.Hour))
	return nil
}
