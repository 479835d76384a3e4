package offers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/response"
)

func setupOfferRouter(f fixture, actor policy.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewOfferHandler(f.service, func(c *gin.Context) {
		auth.SetActor(c, actor)
		c.Next()
	})
	h.RegisterRoutes(r)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, response.APIResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestOfferHandler_CreateOffer(t *testing.T) {
	f := newFixture(policy.Strict())
	r := setupOfferRouter(f, founder)

	w, resp := doJSON(r, http.MethodPost, "/api/startups/10/offers", `{"amount":"50000","equity_percentage":7.5,"terms":"SAFE"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	require.Equal(t, "50000", data["amount"])
	require.Equal(t, "50000", data["remaining_amount"])
	require.Equal(t, "ACTIVE", data["status"])
}

func TestOfferHandler_CreateOffer_InvalidStartupID(t *testing.T) {
	r := setupOfferRouter(newFixture(policy.Strict()), founder)

	w, resp := doJSON(r, http.MethodPost, "/api/startups/abc/offers", `{"amount":"1","equity_percentage":"1"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid startup id", resp.Message)
}

func TestOfferHandler_CreateOffer_ForeignStartup(t *testing.T) {
	r := setupOfferRouter(newFixture(policy.Strict()), founder)

	w, resp := doJSON(r, http.MethodPost, "/api/startups/20/offers", `{"amount":"1","equity_percentage":"1"}`)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "NOT_STARTUP_OWNER", resp.Code)
}

func TestOfferHandler_UpdateOffer_OwnershipMismatch(t *testing.T) {
	f := newFixture(policy.Lax())
	o := f.create(t, "1000")
	r := setupOfferRouter(f, outsider)

	w, resp := doJSON(r, http.MethodPut, "/api/startups/20/offers/"+itoa(o.ID), `{"amount":"10","equity_percentage":"1"}`)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "OFFER_OWNERSHIP_MISMATCH", resp.Code)
}

func TestOfferHandler_UpdateOfferStatus_InvalidStatus(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")
	r := setupOfferRouter(f, founder)

	w, resp := doJSON(r, http.MethodPut, "/api/startups/10/offers/"+itoa(o.ID)+"/status", `{"status":"PAUSED"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_STATUS", resp.Code)
}

func TestOfferHandler_AcceptTwice(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "1000")
	r := setupOfferRouter(f, backer)

	w, _ := doJSON(r, http.MethodPost, "/api/investment-offers/"+itoa(o.ID)+"/accept", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(r, http.MethodPost, "/api/investment-offers/"+itoa(o.ID)+"/accept", "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "OFFER_ALREADY_CLOSED", resp.Code)
}

func TestOfferHandler_Invest_Insufficient(t *testing.T) {
	f := newFixture(policy.Strict())
	o := f.create(t, "100")
	r := setupOfferRouter(f, backer)

	w, resp := doJSON(r, http.MethodPost, "/api/investment-offers/"+itoa(o.ID)+"/invest", `{"amount":"150"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "INSUFFICIENT_REMAINING", resp.Code)
}

func TestOfferHandler_GetOffer_NotFound(t *testing.T) {
	r := setupOfferRouter(newFixture(policy.Strict()), founder)

	w, resp := doJSON(r, http.MethodGet, "/api/investment-offers/404", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "OFFER_NOT_FOUND", resp.Code)
}

func TestOfferHandler_ListActive(t *testing.T) {
	f := newFixture(policy.Strict())
	f.create(t, "1000")
	r := setupOfferRouter(f, founder)

	w, resp := doJSON(r, http.MethodGet, "/api/startups/10/offers/active", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Data.([]any), 1)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
