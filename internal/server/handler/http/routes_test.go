package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/listkeeper/internal/auth"
	"github.com/atinyakov/listkeeper/internal/repository/memory"
	"github.com/atinyakov/listkeeper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore()
	tokens := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), auth.WithRevocation(store))
	log := zap.NewNop()
	return NewRouter(
		&AccountHandler{AccountService: service.NewAccountService(store, tokens), Logger: log},
		&ListHandler{ListService: service.NewListService(store), Logger: log},
		auth.NewGate(tokens),
		[]string{"http://localhost:3000"},
		log,
	)
}

func (c *apiClient) do(method, path, body string) (int, envelope) {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, env
}

func (c *apiClient) login(user, password string) {
	c.t.Helper()
	code, env := c.do("POST", "/api/login", fmt.Sprintf(`{"username_or_email":%q,"password":%q}`, user, password))
	require.Equal(c.t, http.StatusOK, code)
	var res service.LoginResult
	require.NoError(c.t, json.Unmarshal(env.Data, &res))
	require.Equal(c.t, "Bearer", res.Type)
	c.token = res.Token
}

func TestRouter_GroceriesScenario(t *testing.T) {
	c := &apiClient{t: t, router: newTestRouter(t)}

	code, env := c.do("POST", "/api/signup", `{"username":"alice","email":"alice@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "signed up successfully", env.Message)

	c.login("alice", "pw")

	code, env = c.do("POST", "/api/lists", `{"name":"groceries"}`)
	require.Equal(t, http.StatusCreated, code)
	var list struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))

	code, _ = c.do("POST", fmt.Sprintf("/api/lists/%d/items", list.ID), `{"description":"milk"}`)
	require.Equal(t, http.StatusCreated, code)

	code, env = c.do("GET", fmt.Sprintf("/api/lists/%d", list.ID), "")
	require.Equal(t, http.StatusOK, code)
	var full struct {
		Name  string `json:"name"`
		Items []struct {
			ID          int64  `json:"id"`
			Description string `json:"description"`
			Finished    bool   `json:"finished"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &full))
	assert.Equal(t, "groceries", full.Name)
	require.Len(t, full.Items, 1)
	assert.Equal(t, "milk", full.Items[0].Description)
	assert.False(t, full.Items[0].Finished)

	code, _ = c.do("PUT", fmt.Sprintf("/api/lists/%d/items/%d", list.ID, full.Items[0].ID), `{"description":"milk","finished":true}`)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do("DELETE", fmt.Sprintf("/api/lists/%d", list.ID), "")
	assert.Equal(t, http.StatusOK, code)

	code, env = c.do("GET", "/api/lists", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	c := &apiClient{t: t, router: newTestRouter(t)}

	for _, token := range []string{"", "garbage"} {
		c.token = token
		code, env := c.do("GET", "/api/lists", "")
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "invalid token, please login again", env.Message)
		assert.JSONEq(t, `""`, string(env.Data))
	}
}

func TestRouter_SecondLoginRevokesFirstToken(t *testing.T) {
	c := &apiClient{t: t, router: newTestRouter(t)}
	code, _ := c.do("POST", "/api/signup", `{"username":"alice","email":"alice@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, code)

	c.login("alice", "pw")
	first := c.token
	c.token = ""
	c.login("alice@example.com", "pw")

	code, _ = c.do("GET", "/api/users", "")
	assert.Equal(t, http.StatusOK, code)

	c.token = first
	code, _ = c.do("GET", "/api/users", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_StrangerCannotTouchList(t *testing.T) {
	router := newTestRouter(t)
	alice := &apiClient{t: t, router: router}
	bob := &apiClient{t: t, router: router}
	for _, name := range []string{"alice", "bob"} {
		code, _ := alice.do("POST", "/api/signup", fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"pw"}`, name, name))
		require.Equal(t, http.StatusOK, code)
	}
	alice.login("alice", "pw")
	bob.login("bob", "pw")

	code, env := alice.do("POST", "/api/lists", `{"name":"private"}`)
	require.Equal(t, http.StatusCreated, code)
	var list struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))

	code, _ = bob.do("GET", fmt.Sprintf("/api/lists/%d", list.ID), "")
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = bob.do("DELETE", fmt.Sprintf("/api/lists/%d", list.ID), "")
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = bob.do("POST", fmt.Sprintf("/api/lists/%d/items", list.ID), `{"description":"spam"}`)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest("POST", "/api/signup", strings.NewReader(`username=alice`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
