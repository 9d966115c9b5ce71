package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hammaslab/workcard-api/internal/config"
	"github.com/hammaslab/workcard-api/internal/database"
	"github.com/hammaslab/workcard-api/internal/handler"
	"github.com/hammaslab/workcard-api/internal/repository"
	"github.com/hammaslab/workcard-api/internal/router"
	"github.com/hammaslab/workcard-api/internal/service"
)

const testSeedToken = "test-seed-token"

// newTestApp wires the full HTTP stack over an in-memory database. The
// stubbed auth middleware installs the given user and role, standing in for
// the JWT layer.
func newTestApp(t *testing.T, userID, role string) *fiber.App {
	t.Helper()
	return newTestAppWithLimiter(t, userID, role, nil)
}

func newTestAppWithLimiter(t *testing.T, userID, role string, submitLimiter fiber.Handler) *fiber.App {
	t.Helper()

	db := openTestDB(t)
	logger := zerolog.Nop()
	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	cardRepo := repository.NewWorkCardRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	courseService := service.NewCourseService(courseRepo, validate, logger)
	cardService := service.NewWorkCardService(cardRepo, courseRepo, validate, logger)
	progressService := service.NewProgressService(taskRepo, nil, 0, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	taskService := service.NewTaskService(taskRepo, submissionRepo, validate, progressService, notificationService, logger)
	seedService := service.NewSeedService(db, courseRepo, taskRepo, true, testSeedToken, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "WorkCard API", AppEnv: "test"}, router.Dependencies{
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		WorkCardHandler:     handler.NewWorkCardHandler(cardService, logger),
		TaskHandler:         handler.NewTaskHandler(taskService, progressService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		SeedHandler:         handler.NewSeedHandler(seedService, logger),
		SubmitLimiter:       submitLimiter,
		JWTMiddleware: func(c *fiber.Ctx) error {
			if userID != "" {
				c.Locals("user_id", userID)
			}
			if role != "" {
				c.Locals("user_role", role)
			}
			return c.Next()
		},
	})

	return app
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func decodeData(t *testing.T, env envelope, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, target))
}
