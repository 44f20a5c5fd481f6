package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/auth"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
	_ "github.com/JINWOOK1234/pos-project/testing"
)

type harness struct {
	t        *testing.T
	router   chi.Router
	sessions *shared.SessionManager
	cookie   *http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)
	handler := auth.NewHandler(nil, auth.NewService(auth.NewRepository(memory.New())), sessions, shared.NewCSRFManager("csrfsecret"))
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return &harness{t: t, router: r, sessions: sessions}
}

// do runs one request with the harness cookie and keeps whatever cookie the session commit writes.
func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	sess, err := h.sessions.Load(context.Background(), req)
	require.NoError(h.t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	h.router.ServeHTTP(res, req)

	commit := httptest.NewRecorder()
	require.NoError(h.t, h.sessions.Commit(context.Background(), commit, sess))
	for _, c := range commit.Result().Cookies() {
		if c.Name == h.sessions.CookieName() {
			if c.MaxAge < 0 {
				h.cookie = nil
			} else {
				h.cookie = c
			}
		}
	}
	return res
}

func TestRegisterLoginStatusLogout(t *testing.T) {
	h := newHarness(t)

	res := h.do(http.MethodPost, "/register", `{"username":"cashier","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, res.Code)

	res = h.do(http.MethodPost, "/register", `{"username":"cashier","password":"secret1"}`)
	require.Equal(t, http.StatusConflict, res.Code)

	res = h.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusUnauthorized, res.Code)

	res = h.do(http.MethodPost, "/login", `{"username":"cashier","password":"wrong-pass"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)

	res = h.do(http.MethodPost, "/login", `{"username":"cashier","password":"secret1"}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, h.cookie)

	res = h.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, res.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &status))
	require.Equal(t, "cashier", status["username"])

	res = h.do(http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Nil(t, h.cookie)

	res = h.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/register", `{"username":"ab","password":"secret1"}`).Code)
	require.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/register", `{"username":"cashier","password":"123"}`).Code)
	require.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/register", `{"username":"cashier"}`).Code)
	require.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/login", `{}`).Code)
}

func TestCSRFTokenStableWithinSession(t *testing.T) {
	h := newHarness(t)

	first := h.do(http.MethodGet, "/csrf", "")
	require.Equal(t, http.StatusOK, first.Code)
	require.NotNil(t, h.cookie)
	second := h.do(http.MethodGet, "/csrf", "")
	require.JSONEq(t, first.Body.String(), second.Body.String())
}
