package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/config"
	"github.com/qs3c/shop_go_server/internal/api/middleware"
	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/pkg/response"
	"github.com/qs3c/shop_go_server/internal/repository"
	"github.com/qs3c/shop_go_server/internal/service"
	"github.com/qs3c/shop_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// mockAuth 模拟认证中间件
func mockAuth(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

// stubStorage 测试用凭证存储
type stubStorage struct{}

func (stubStorage) UploadProof(paymentID int64, data []byte, ext string) (string, error) {
	return fmt.Sprintf("https://cdn.example.com/proofs/%d/proof%s", paymentID, ext), nil
}
func (stubStorage) UploadShopLogo(shopID int64, data []byte, ext string) (string, error) {
	return fmt.Sprintf("https://cdn.example.com/shops/%d/logo%s", shopID, ext), nil
}
func (stubStorage) Delete(objectKey string) error { return nil }
func (stubStorage) GetSignedURL(objectKey string, expireSeconds ...int64) (string, error) {
	return "https://signed.example.com/" + objectKey, nil
}
func (stubStorage) ExtractObjectKey(url string) string { return url }

func setupPaymentHandler(t *testing.T) (*PaymentHandler, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	cfg := &config.Config{
		Upload: config.UploadConfig{
			MaxSize:           5 * 1024 * 1024,
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		},
	}

	paymentService := service.NewPaymentService(
		db,
		repository.NewPaymentRepository(db),
		repository.NewPlanRepository(db),
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
		stubStorage{},
		nil,
		nil,
		cfg,
	)
	handler := NewPaymentHandler(paymentService, cfg)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return handler, db, cleanup
}

func TestPaymentHandler_Submit_Success(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestPlan(t, db, testutil.WithPlanKey("basic"), testutil.WithPrice(99, 0))

	router := gin.New()
	router.Use(mockAuth(user.ID, model.RoleUser))
	router.POST("/payments", handler.Submit)

	req := dto.SubmitPaymentRequest{
		PlanKey: "basic",
		Channel: "wechat",
		Phone:   "13800138000",
	}

	w := performRequest(router, "POST", "/payments", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 99.0, data["amount"])
}

func TestPaymentHandler_Submit_InvalidChannel(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID, model.RoleUser))
	router.POST("/payments", handler.Submit)

	w := performRequest(router, "POST", "/payments", map[string]string{
		"plan_key": "basic",
		"channel":  "cash",
		"phone":    "13800138000",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestPaymentHandler_Submit_DuplicatePending(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	testutil.TestPlan(t, db, testutil.WithPlanKey("basic"))
	testutil.TestPaymentRequest(t, db, user.ID)

	router := gin.New()
	router.Use(mockAuth(user.ID, model.RoleUser))
	router.POST("/payments", handler.Submit)

	w := performRequest(router, "POST", "/payments", dto.SubmitPaymentRequest{
		PlanKey: "basic",
		Channel: "wechat",
		Phone:   "13800138000",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestPaymentHandler_Approve_Success(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	testutil.TestPlan(t, db, testutil.WithPlanKey("basic"))
	payment := testutil.TestPaymentRequest(t, db, user.ID)

	router := gin.New()
	router.Use(mockAuth(admin.ID, model.RoleAdmin))
	router.POST("/admin/payments/:id/approve", handler.Approve)

	// Empty body is allowed for approval
	w := performRequest(router, "POST", fmt.Sprintf("/admin/payments/%d/approve", payment.ID), nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)

	refreshed, err := repository.NewUserRepository(db).GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "basic", refreshed.Plan)
}

func TestPaymentHandler_Approve_Twice(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	testutil.TestPlan(t, db, testutil.WithPlanKey("basic"))
	payment := testutil.TestPaymentRequest(t, db, user.ID)

	router := gin.New()
	router.Use(mockAuth(admin.ID, model.RoleAdmin))
	router.POST("/admin/payments/:id/approve", handler.Approve)

	path := fmt.Sprintf("/admin/payments/%d/approve", payment.ID)
	w := performRequest(router, "POST", path, nil)
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", path, nil)
	assert.Equal(t, response.CodeDuplicateAction, parseResponse(t, w).Code)
}

func TestPaymentHandler_Reject_NotesRequired(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	payment := testutil.TestPaymentRequest(t, db, user.ID)

	router := gin.New()
	router.Use(mockAuth(admin.ID, model.RoleAdmin))
	router.POST("/admin/payments/:id/reject", handler.Reject)

	path := fmt.Sprintf("/admin/payments/%d/reject", payment.ID)

	// Whitespace-only notes are rejected
	w := performRequest(router, "POST", path, dto.ReviewPaymentRequest{Notes: "   "})
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)

	w = performRequest(router, "POST", path, dto.ReviewPaymentRequest{Notes: "凭证无效"})
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)
}

func TestPaymentHandler_Get_Permission(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	payment := testutil.TestPaymentRequest(t, db, owner.ID)

	path := fmt.Sprintf("/payments/%d", payment.ID)

	// Owner can read
	router := gin.New()
	router.Use(mockAuth(owner.ID, model.RoleUser))
	router.GET("/payments/:id", handler.Get)
	w := performRequest(router, "GET", path, nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	// Another user can't
	router = gin.New()
	router.Use(mockAuth(other.ID, model.RoleUser))
	router.GET("/payments/:id", handler.Get)
	w = performRequest(router, "GET", path, nil)
	assert.Equal(t, response.CodePermissionDenied, parseResponse(t, w).Code)

	// Admin can
	router = gin.New()
	router.Use(mockAuth(other.ID, model.RoleAdmin))
	router.GET("/payments/:id", handler.Get)
	w = performRequest(router, "GET", path, nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)
}

func TestPaymentHandler_ListPending(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)
	testutil.TestPaymentRequest(t, db, u1.ID)
	testutil.TestPaymentRequest(t, db, u2.ID, testutil.WithPaymentStatus(model.PaymentStatusApproved))

	router := gin.New()
	router.Use(mockAuth(admin.ID, model.RoleAdmin))
	router.GET("/admin/payments/pending", handler.ListPending)

	w := performRequest(router, "GET", "/admin/payments/pending", nil)
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.0, data["total"])
}
