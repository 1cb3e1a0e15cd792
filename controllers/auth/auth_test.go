package authController_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"schoolms/config"
	"schoolms/database"
	"schoolms/models"
	authRoutes "schoolms/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: bcrypt.MinCost,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.LoginTracking{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &parsed), "body: %s", data)
	}
	return resp, parsed
}

func studentSignup() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Asha Student",
		"email":    "asha@example.test",
		"password": "password123",
		"trade":    "Electrical",
		"level":    "LEVEL_1",
	}
}

func TestSignup_DefaultsToStudentRole(t *testing.T) {
	app := setupAuthApp(t)

	resp, body := postJSON(t, app, "/auth/signup", studentSignup())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, models.RoleStudent, data.User.Role)
	assert.Equal(t, "asha@example.test", data.User.Email)

	// the password hash never leaves the server
	assert.NotContains(t, string(body.Data), "password123")

	var stored models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "asha@example.test").First(&stored).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	app := setupAuthApp(t)

	resp, _ := postJSON(t, app, "/auth/signup", studentSignup())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := postJSON(t, app, "/auth/signup", studentSignup())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body.Message, "already registered")
}

// Two racing signups for the same email: the unique constraint decides, one
// account is created and the loser gets the same conflict as the sequential case.
func TestSignup_ConcurrentDuplicateEmail(t *testing.T) {
	app := setupAuthApp(t)

	raw, err := json.Marshal(studentSignup())
	require.NoError(t, err)

	statuses := make(chan int, 2)
	errs := make(chan error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if err != nil {
				errs <- err
				return
			}
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)
	close(errs)

	for err := range errs {
		t.Fatalf("signup request failed: %v", err)
	}

	got := make([]int, 0, 2)
	for s := range statuses {
		got = append(got, s)
	}
	sort.Ints(got)
	assert.Equal(t, []int{http.StatusOK, http.StatusConflict}, got)

	var count int64
	database.Database.Db.Model(&models.User{}).
		Where("email = ?", "asha@example.test").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSignup_StudentNeedsTradeAndLevel(t *testing.T) {
	app := setupAuthApp(t)

	payload := studentSignup()
	delete(payload, "trade")
	delete(payload, "level")

	resp, _ := postJSON(t, app, "/auth/signup", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSignup_TeacherNeedsNoTrade(t *testing.T) {
	app := setupAuthApp(t)

	payload := map[string]interface{}{
		"name":     "Ravi Teacher",
		"email":    "ravi@example.test",
		"password": "password123",
		"role":     models.RoleTeacher,
	}
	resp, _ := postJSON(t, app, "/auth/signup", payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignup_AdminRoleRejected(t *testing.T) {
	app := setupAuthApp(t)

	payload := studentSignup()
	payload["role"] = models.RoleAdmin

	// admins are provisioned out of band, never through public signup
	resp, _ := postJSON(t, app, "/auth/signup", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app := setupAuthApp(t)

	resp, _ := postJSON(t, app, "/auth/signup", studentSignup())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "Asha@Example.Test", // mixed case resolves to the same account
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.NotEmpty(t, data.Token)
	require.NotNil(t, data.User.LastLogin)

	var logins int64
	database.Database.Db.Model(&models.LoginTracking{}).
		Where("user_id = ?", data.User.ID).Count(&logins)
	assert.Equal(t, int64(1), logins)
}

func TestLogin_WrongPassword(t *testing.T) {
	app := setupAuthApp(t)

	resp, _ := postJSON(t, app, "/auth/signup", studentSignup())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "asha@example.test",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body.Message, "Invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	app := setupAuthApp(t)

	resp, _ := postJSON(t, app, "/auth/login", map[string]interface{}{
		"email":    "nobody@example.test",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
