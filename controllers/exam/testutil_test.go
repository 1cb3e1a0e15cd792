package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"schoolms/config"
	"schoolms/database"
	"schoolms/middleware"
	"schoolms/models"
	examModels "schoolms/models/exam"
	examRoutes "schoolms/routers/examRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// apiResponse mirrors middleware.JsonResponse's envelope
type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestApp(t *testing.T) *fiber.App {
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

	// a single connection keeps the in-memory database alive and serializes
	// concurrent writers, so the unique-index race resolves deterministically
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&examModels.Exam{},
		&examModels.Question{},
		&examModels.Attempt{},
	))

	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	examRoutes.SetupExamRoutes(app)
	examRoutes.SetupTeacherExamRoutes(app)
	return app
}

func createUser(t *testing.T, role, trade, level string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:     "Test " + role,
		Email:    role + "-" + trade + "-" + level + "@example.test",
		Password: string(hash),
		Role:     role,
		Trade:    trade,
		Level:    level,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func createStudent(t *testing.T) (models.User, string) {
	return createUser(t, models.RoleStudent, "Electrical", models.Level1)
}

func createTeacher(t *testing.T) (models.User, string) {
	return createUser(t, models.RoleTeacher, "", "")
}

// seedExam creates an exam with three questions worth {1,1,2} marks and
// returns the exam plus the question IDs in creation order.
func seedExam(t *testing.T, teacherID uint) (examModels.Exam, []uint) {
	t.Helper()

	exam := examModels.Exam{
		TeacherID:   teacherID,
		Title:       "Basic Electricity",
		Description: "Fundamentals of current and voltage",
		Level:       models.Level1,
	}
	require.NoError(t, database.Database.Db.Create(&exam).Error)

	defs := []struct {
		text    string
		qType   string
		options []string
		correct string
		marks   int
	}{
		{"What is the unit of current?", examModels.TypeMCQ, []string{"Ampere", "Volt", "Ohm"}, "Ampere", 1},
		{"What does V stand for?", examModels.TypeMCQ, []string{"Voltage", "Velocity"}, "Voltage", 1},
		{"Current flows from negative to positive.", examModels.TypeTrueFalse, []string{"True", "False"}, "True", 2},
	}

	ids := make([]uint, 0, len(defs))
	total := 0
	for _, sp := range defs {
		q := examModels.Question{
			ExamID:           exam.ID,
			Text:             sp.text,
			Type:             sp.qType,
			CorrectAnswer:    sp.correct,
			Marks:            sp.marks,
			TimeLimitSeconds: examModels.DefaultTimeLimitSeconds,
		}
		require.NoError(t, q.SetOptions(sp.options))
		require.NoError(t, database.Database.Db.Create(&q).Error)
		ids = append(ids, q.ID)
		total += sp.marks
	}
	require.NoError(t, database.Database.Db.Model(&exam).Update("total_marks", total).Error)
	exam.TotalMarks = total
	return exam, ids
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp, parsed
}

func submitBody(answers map[uint]string, order []uint) map[string]interface{} {
	list := make([]map[string]interface{}, 0, len(answers))
	for _, qid := range order {
		if ans, ok := answers[qid]; ok {
			list = append(list, map[string]interface{}{"question_id": qid, "answer": ans})
		}
	}
	return map[string]interface{}{"answers": list}
}
