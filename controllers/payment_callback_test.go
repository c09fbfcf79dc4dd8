package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupCallbackEnv points the gateway clients at a stub provider server and
// the database at sqlmock.
func setupCallbackEnv(t *testing.T, handler http.Handler) sqlmock.Sqlmock {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)
	config.DB = db

	config.AppConfig = &config.Config{
		FrontendURL:       "http://localhost:3000",
		AppBaseURL:        "http://localhost:8080",
		BkashBaseURL:      server.URL,
		SSLCommerzBaseURL: server.URL,
		ShurjoPayBaseURL:  server.URL,
		ShurjoPayPrefix:   "GBD",
	}
	// nothing listens on this address; the token caches tolerate an
	// unavailable redis and fetch fresh tokens instead
	config.RedisClient = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return mock
}

func callbackGet(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func callbackPostForm(target string, form url.Values) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c, w
}

// each select consumes its rows, so callers need one instance per query
func pendingGuestDonationRow(gateway, paymentID, reference string, amount float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "campaign_id", "user_id", "anonymous", "amount", "currency",
		"gateway", "status", "payment_id", "reference",
	}).AddRow(1, 3, nil, false, amount, "BDT", gateway, models.DonationStatusPending, paymentID, reference)
}

func expectGuestSuccessSettlement(mock sqlmock.Sqlmock, gateway, paymentID, reference string, amount float64) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "donations" .*FOR UPDATE`).
		WillReturnRows(pendingGuestDonationRow(gateway, paymentID, reference, amount))
	mock.ExpectExec(`UPDATE "donations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "campaigns" SET "raised"=raised \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func bkashStubHandlers(executeResponse map[string]interface{}) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenized/checkout/token/grant", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode": "0000",
			"id_token":   "cb-test-token",
			"expires_in": 3600,
		})
	})
	mux.HandleFunc("/tokenized/checkout/execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(executeResponse)
	})
	return mux
}

// A cancel redirect is only honored after bKash confirms the payment never
// completed.
func TestBkashCallbackCancelConfirmedWithProvider(t *testing.T) {
	mock := setupCallbackEnv(t, bkashStubHandlers(map[string]interface{}{
		"statusCode":        "0000",
		"transactionStatus": "Initiated",
	}))

	mock.ExpectQuery(`SELECT \* FROM "donations" WHERE \(?payment_id`).
		WillReturnRows(pendingGuestDonationRow(models.GatewayBkash, "TR0011abc", "DON-A", 500))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "donations" .*FOR UPDATE`).
		WillReturnRows(pendingGuestDonationRow(models.GatewayBkash, "TR0011abc", "DON-A", 500))
	mock.ExpectExec(`UPDATE "donations" SET "status"=\$1`).
		WithArgs(models.DonationStatusCancelled, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, w := callbackGet("/v1/payments/bkash/callback?paymentID=TR0011abc&status=cancel")
	BkashCallback(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A forged cancel against a payment bKash reports as completed must settle
// the donation as a success, not block it in a terminal cancelled state.
func TestBkashCallbackForgedCancelSettlesSuccess(t *testing.T) {
	mock := setupCallbackEnv(t, bkashStubHandlers(map[string]interface{}{
		"statusCode":        "0000",
		"trxID":             "9HX2B4C7",
		"transactionStatus": "Completed",
		"amount":            "500.00",
	}))

	mock.ExpectQuery(`SELECT \* FROM "donations" WHERE \(?payment_id`).
		WillReturnRows(pendingGuestDonationRow(models.GatewayBkash, "TR0011abc", "DON-A", 500))
	expectGuestSuccessSettlement(mock, models.GatewayBkash, "TR0011abc", "DON-A", 500)

	c, w := callbackGet("/v1/payments/bkash/callback?paymentID=TR0011abc&status=cancel")
	BkashCallback(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShurjoPayCancelForgedSettlesSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/get_token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "sp-cb-token", "store_id": 1, "expires_in": 3600,
		})
	})
	mux.HandleFunc("/api/verification", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{{
			"sp_code": "1000", "order_id": "SP1", "amount": 500, "bank_trx_id": "BTRX1",
		}})
	})
	mock := setupCallbackEnv(t, mux)

	mock.ExpectQuery(`SELECT \* FROM "donations" WHERE \(?payment_id`).
		WillReturnRows(pendingGuestDonationRow(models.GatewayShurjoPay, "SP1", "DON-B", 500))
	expectGuestSuccessSettlement(mock, models.GatewayShurjoPay, "SP1", "DON-B", 500)

	c, w := callbackGet("/v1/payments/shurjopay/cancel?order_id=SP1")
	ShurjoPayCancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A fail post that carries a val_id is checked against the validator; a
// transaction the validator reports VALID settles as a success.
func TestSSLCommerzFailWithValIDVerifies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/validator/api/validationserverAPI.php", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "VALID",
			"tran_id":      "DON-C",
			"amount":       "500.00",
			"bank_tran_id": "BANKTRX1",
		})
	})
	mock := setupCallbackEnv(t, mux)

	mock.ExpectQuery(`SELECT \* FROM "donations" WHERE \(?reference`).
		WillReturnRows(pendingGuestDonationRow(models.GatewaySSLCommerz, "SESSION1", "DON-C", 500))
	expectGuestSuccessSettlement(mock, models.GatewaySSLCommerz, "SESSION1", "DON-C", 500)

	c, w := callbackPostForm("/v1/payments/sslcommerz/fail", url.Values{
		"tran_id": {"DON-C"},
		"val_id":  {"VAL1"},
	})
	SSLCommerzFail(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "status=success")
	assert.NoError(t, mock.ExpectationsWereMet())
}
