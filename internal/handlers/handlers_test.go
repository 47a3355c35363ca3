package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"crmbackend/internal/middleware"
	"crmbackend/internal/models"
	"crmbackend/internal/password"
	"crmbackend/internal/repository"
	"crmbackend/internal/token"
	"crmbackend/internal/validation"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return gdb, mock
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Register()
	r := gin.New()
	r.Use(middleware.ErrorHandler(zerolog.Nop()))
	return r
}

func TestSearchCustomersInvalidPositionIsEmptyOK(t *testing.T) {
	gdb, mock := newTestDB(t)
	repo := repository.NewCustomerRepository(gdb, password.NewBcrypt(), zerolog.Nop())

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT id, email, name, started_date, position_id FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "started_date", "position_id"}))

	r := newRouter()
	r.GET("/v1/customer", SearchCustomers(repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/customer?positionId=abc", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"total_count":0`) || !strings.Contains(body, `"customer":[]`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestLoginIncorrectCredentials(t *testing.T) {
	gdb, mock := newTestDB(t)
	jwt := token.NewJWT("secret", "refresh", time.Minute, time.Hour)
	repo := repository.NewAuthRepository(gdb, password.NewBcrypt(), jwt, zerolog.Nop())

	mock.ExpectQuery("SELECT \\* FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "started_date", "position_id", "created_at", "updated_at", "deleted_at"}))

	r := newRouter()
	r.POST("/v1/login", Login(repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/login", strings.NewReader(`{"email":"a@b.com","password":"Wrong0rd!"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"message":"Login information is incorrect"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestLoginAggregatesValidationErrors(t *testing.T) {
	gdb, _ := newTestDB(t)
	jwt := token.NewJWT("secret", "refresh", time.Minute, time.Hour)
	repo := repository.NewAuthRepository(gdb, password.NewBcrypt(), jwt, zerolog.Nop())

	r := newRouter()
	r.POST("/v1/login", Login(repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "email is a required field") || !strings.Contains(body, "password is a required field") {
		t.Fatalf("expected both field errors, got %s", body)
	}
}

func TestSearchOrdersShapesDeletedDate(t *testing.T) {
	gdb, mock := newTestDB(t)
	jwt := token.NewJWT("secret", "refresh", time.Minute, time.Hour)
	orderRepo := repository.NewOrderRepository(gdb, zerolog.Nop())

	pair, err := jwt.Issue(token.Claims{UserID: 1, Email: "admin@example.com", PositionID: models.PositionAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Auth gate lookup, then the windowed order scan.
	mock.ExpectQuery("SELECT id, email, position_id FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "position_id"}).
			AddRow(1, "admin@example.com", 0))

	created := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	deleted := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) OVER\\(\\) AS total_count").
		WillReturnRows(sqlmock.NewRows([]string{
			"total_count", "order_id", "item_name", "item_code", "item_quantity",
			"created_at", "updated_at", "deleted_at", "customer_id", "customer_name",
		}).
			AddRow(2, 12, "ink", nil, 2, created, created, &deleted, 1, "Abe").
			AddRow(2, 11, "pen", "XY-9", 1, created.Add(-time.Hour), created, nil, 1, "Abe"))

	r := newRouter()
	r.Use(middleware.Auth(gdb, jwt, zerolog.Nop()))
	r.GET("/v1/order", SearchOrders(orderRepo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/order", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"total_count":2`) {
		t.Fatalf("missing windowed total: %s", body)
	}
	if !strings.Contains(body, `"deleted_date":"2024-06-01"`) {
		t.Fatalf("expected formatted deleted_date for soft-deleted row: %s", body)
	}
	if !strings.Contains(body, `"deleted_date":""`) {
		t.Fatalf("expected empty deleted_date for live row: %s", body)
	}
	if !strings.Contains(body, `"item_code":""`) {
		t.Fatalf("expected empty item_code for null code: %s", body)
	}
	if !strings.Contains(body, `"item_quantity":"2"`) {
		t.Fatalf("expected stringified quantity: %s", body)
	}
}
