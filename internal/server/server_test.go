package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courier-chat/config"
	"courier-chat/internal/domain/user"
	"courier-chat/internal/handler"
	"courier-chat/internal/proxy"
	"courier-chat/internal/repository"
	"courier-chat/internal/services"
	"courier-chat/internal/testutil"
	"courier-chat/internal/transport/httpdto"
	"courier-chat/pkg/logger"

	"gorm.io/gorm"
)

type testServer struct {
	srv  *Server
	db   *gorm.DB
	auth *services.AuthService
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	cfg := &config.Config{
		AppMode:       TestMode,
		AppPort:       "0",
		JWTSecret:     "test-secret",
		JWTExpiryMin:  5,
		RefreshExpiry: 1,
		CORSOrigins:   []string{"*"},
	}
	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	access := proxy.NewAccessControl(threadRepo)

	auth := services.NewAuthService(userRepo, cfg)
	users := services.NewUserService(userRepo, nil, logger.NewNop())
	paging := handler.Pagination{DefaultSize: 20, MaxSize: 100}

	srv := New(cfg, logger.NewNop())
	srv.SetupRoutes(&Handlers{
		Auth:    handler.NewAuthHandler(auth),
		Thread:  handler.NewThreadHandler(services.NewThreadService(db, threadRepo, users, access), paging),
		Message: handler.NewMessageHandler(services.NewMessageService(repository.NewMessageRepository(db), access), users, paging),
	}, auth, nil)

	return testServer{srv: srv, db: db, auth: auth}
}

func (ts testServer) token(t *testing.T, u user.User) string {
	t.Helper()
	token, err := ts.auth.IssueAccessToken(u.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (ts testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp httpdto.Response[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp.Data
}

func TestPingAndHealth(t *testing.T) {
	ts := newTestServer(t)

	if w := ts.do(t, http.MethodGet, "/ping", "", nil); w.Code != http.StatusOK {
		t.Fatalf("ping: expected 200, got %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}

	ts.srv.AddHealthCheck("database", func() error { return errors.New("down") })
	if w := ts.do(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("health with failing check: expected 503, got %d", w.Code)
	}
}

func TestRegisterLoginRefresh(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/users/register", "", httpdto.RegisterRequest{
		Username: "carol", Password: "longenough", FirstName: "Carol", LastName: "Danvers",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPost, "/api/v1/users/register", "", httpdto.RegisterRequest{Username: "carol", Password: "longenough"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", w.Code)
	}

	w = ts.do(t, http.MethodPost, "/api/v1/users/register", "", httpdto.RegisterRequest{Username: "dave", Password: strings.Repeat("x", 80)})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("overlong password: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPost, "/api/v1/users/login", "", httpdto.LoginRequest{Username: "carol", Password: "wrong-password"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", w.Code)
	}

	w = ts.do(t, http.MethodPost, "/api/v1/users/login", "", httpdto.LoginRequest{Username: "carol", Password: "longenough"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	pair := decode[httpdto.TokenResponse](t, w)
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	w = ts.do(t, http.MethodPost, "/api/v1/users/refresh", "", httpdto.RefreshRequest{Refresh: pair.Refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", w.Code)
	}
	w = ts.do(t, http.MethodPost, "/api/v1/users/refresh", "", httpdto.RefreshRequest{Refresh: pair.Access})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh with access token: expected 401, got %d", w.Code)
	}
}

func TestChatRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	if w := ts.do(t, http.MethodGet, "/api/v1/chat/unread", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestConversationFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")
	eve := testutil.CreateUser(t, ts.db, "eve")
	aliceToken, bobToken, eveToken := ts.token(t, alice), ts.token(t, bob), ts.token(t, eve)

	w := ts.do(t, http.MethodPost, "/api/v1/chat/threads", aliceToken, httpdto.CreateThreadRequest{Participant: bob.ID.String()})
	if w.Code != http.StatusCreated {
		t.Fatalf("create thread: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode[httpdto.CreateThreadResponse](t, w)

	w = ts.do(t, http.MethodPost, "/api/v1/chat/threads", bobToken, httpdto.CreateThreadRequest{Participant: alice.ID.String()})
	if w.Code != http.StatusOK {
		t.Fatalf("existing thread: expected 200, got %d", w.Code)
	}
	if again := decode[httpdto.CreateThreadResponse](t, w); again.ID != created.ID || again.Created {
		t.Fatalf("expected the same thread back, got %+v", again)
	}

	w = ts.do(t, http.MethodPost, "/api/v1/chat/threads", aliceToken, httpdto.CreateThreadRequest{Participant: alice.ID.String()})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self thread: expected 400, got %d", w.Code)
	}

	threadPath := "/api/v1/chat/threads/" + created.ID
	if w = ts.do(t, http.MethodGet, threadPath, eveToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("outsider get: expected 404, got %d", w.Code)
	}
	if w = ts.do(t, http.MethodGet, threadPath, bobToken, nil); w.Code != http.StatusOK {
		t.Fatalf("participant get: expected 200, got %d", w.Code)
	}
	if got := decode[httpdto.ThreadDTO](t, w); len(got.Participants) != 2 {
		t.Fatalf("expected two participants, got %v", got.Participants)
	}

	w = ts.do(t, http.MethodPost, threadPath+"/messages", aliceToken, httpdto.SendMessageRequest{Text: "  hello bob  "})
	if w.Code != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	sent := decode[httpdto.MessageDTO](t, w)
	if sent.Text != "hello bob" || sent.Sender != alice.FullName() || sent.IsRead {
		t.Fatalf("unexpected message %+v", sent)
	}

	if w = ts.do(t, http.MethodPost, threadPath+"/messages", aliceToken, httpdto.SendMessageRequest{Text: "   "}); w.Code != http.StatusBadRequest {
		t.Fatalf("blank text: expected 400, got %d", w.Code)
	}
	if w = ts.do(t, http.MethodPost, threadPath+"/messages", eveToken, httpdto.SendMessageRequest{Text: "hi"}); w.Code != http.StatusNotFound {
		t.Fatalf("outsider send: expected 404, got %d", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/v1/chat/unread", bobToken, nil)
	if got := decode[httpdto.UnreadCountResponse](t, w); got.Count != 1 {
		t.Fatalf("expected bob to have 1 unread, got %d", got.Count)
	}

	readPath := "/api/v1/chat/messages/" + sent.ID + "/read"
	if w = ts.do(t, http.MethodPost, readPath, aliceToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("sender mark read: expected 403, got %d", w.Code)
	}
	if w = ts.do(t, http.MethodPost, readPath, eveToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("outsider mark read: expected 404, got %d", w.Code)
	}
	for i := 0; i < 2; i++ {
		if w = ts.do(t, http.MethodPost, readPath, bobToken, nil); w.Code != http.StatusNoContent {
			t.Fatalf("mark read #%d: expected 204, got %d", i+1, w.Code)
		}
	}

	w = ts.do(t, http.MethodGet, "/api/v1/chat/unread", bobToken, nil)
	if got := decode[httpdto.UnreadCountResponse](t, w); got.Count != 0 {
		t.Fatalf("expected no unread after reading, got %d", got.Count)
	}

	w = ts.do(t, http.MethodGet, threadPath+"/messages", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list messages: expected 200, got %d", w.Code)
	}
	listing := decode[httpdto.PageResponse[httpdto.MessageDTO]](t, w)
	if listing.Count != 1 || len(listing.Results) != 1 || !listing.Results[0].IsRead {
		t.Fatalf("unexpected listing %+v", listing)
	}

	usersPath := "/api/v1/chat/users/" + alice.ID.String() + "/threads"
	if w = ts.do(t, http.MethodGet, usersPath, bobToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("listing someone else's threads: expected 403, got %d", w.Code)
	}
	w = ts.do(t, http.MethodGet, usersPath, aliceToken, nil)
	if got := decode[httpdto.PageResponse[httpdto.ThreadDTO]](t, w); got.Count != 1 {
		t.Fatalf("expected alice to have one thread, got %d", got.Count)
	}

	if w = ts.do(t, http.MethodDelete, threadPath, eveToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("outsider delete: expected 404, got %d", w.Code)
	}
	if w = ts.do(t, http.MethodDelete, threadPath, bobToken, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w = ts.do(t, http.MethodGet, threadPath+"/messages", aliceToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("deleted thread: expected 404, got %d", w.Code)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")

	w := ts.do(t, http.MethodGet, "/api/v1/chat/threads/not-a-uuid", ts.token(t, alice), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
