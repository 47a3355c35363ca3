package middleware

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

	"crmbackend/internal/models"
	"crmbackend/internal/token"
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

func newAuthRouter(t *testing.T, gdb *gorm.DB, verifier token.Verifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zerolog.Nop()), Auth(gdb, verifier, zerolog.Nop()))
	r.GET("/probe", func(c *gin.Context) {
		user := UserFrom(c)
		if user == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no user attached"})
			return
		}
		c.JSON(http.StatusOK, user)
	})
	return r
}

func TestAuthMissingHeader(t *testing.T) {
	gdb, _ := newTestDB(t)
	jwt := token.NewJWT("secret", "refresh", time.Minute, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	newAuthRouter(t, gdb, jwt).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Authentication required") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthMalformedHeader(t *testing.T) {
	gdb, _ := newTestDB(t)
	jwt := token.NewJWT("secret", "refresh", time.Minute, time.Hour)
	router := newAuthRouter(t, gdb, jwt)

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/probe", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestAuthRejectsUnsignedToken(t *testing.T) {
	gdb, _ := newTestDB(t)
	jwt := token.NewJWT("secret", "refresh", time.Minute, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer access_7_1700000000")
	newAuthRouter(t, gdb, jwt).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid token") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthAttachesLiveUser(t *testing.T) {
	gdb, mock := newTestDB(t)
	jwt := token.NewJWT("secret", "refresh", time.Minute, time.Hour)

	pair, err := jwt.Issue(token.Claims{UserID: 7, Email: "admin@example.com", PositionID: models.PositionAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mock.ExpectQuery("SELECT id, email, position_id FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "position_id"}).
			AddRow(7, "admin@example.com", 0))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	newAuthRouter(t, gdb, jwt).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"positionId":0`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAuthRejectsDeletedUser(t *testing.T) {
	gdb, mock := newTestDB(t)
	jwt := token.NewJWT("secret", "refresh", time.Minute, time.Hour)

	pair, err := jwt.Issue(token.Claims{UserID: 9, Email: "gone@example.com", PositionID: models.PositionUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// The deleted_at IS NULL predicate filters the row out.
	mock.ExpectQuery("SELECT id, email, position_id FROM `customers`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "position_id"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	newAuthRouter(t, gdb, jwt).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid or expired token") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
