package messages

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"startupconnect/pkg/auth"
	"startupconnect/pkg/notifications"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/response"
)

func setupMessageRouter(store MessageStore, actor policy.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewMessageService(store, people, notifications.Nop{}), func(c *gin.Context) {
		auth.SetActor(c, actor)
		c.Next()
	})
	h.RegisterRoutes(r)
	return r
}

func TestHandler_SendMessage(t *testing.T) {
	store := &mockStore{}
	r := setupMessageRouter(store, backer)

	req := httptest.NewRequest(http.MethodPost, "/api/messages/send", strings.NewReader(`{"receiver_id":1,"content":"interested"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.saved, 1)
	require.Equal(t, "interested", store.saved[0].Content)
}

func TestHandler_SendMessage_SelfMessage(t *testing.T) {
	r := setupMessageRouter(&mockStore{}, backer)

	req := httptest.NewRequest(http.MethodPost, "/api/messages/send", strings.NewReader(`{"receiver_id":3,"content":"me"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "SELF_MESSAGE", resp.Code)
}

func TestHandler_GetConversation_MissingPeer(t *testing.T) {
	r := setupMessageRouter(&mockStore{}, backer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/messages/conversation", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetConversation_BeforeCursor(t *testing.T) {
	store := &mockStore{historyResult: []Message{{ID: 9, Content: "hi"}}}
	r := setupMessageRouter(store, backer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/messages/conversation?peer_id=1&limit=10&before=1700000000", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 10, store.historyArgs.limit)
	require.Equal(t, int64(1700000000), store.historyArgs.before.Unix())
}

func TestHandler_GetConversationUsers(t *testing.T) {
	store := &mockStore{contacts: []Contact{{ID: 1, FullName: "Fran Founder", Role: policy.RoleStartup}}}
	r := setupMessageRouter(store, backer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/messages/conversation-users", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.([]any), 1)
}
