package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func router(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/auth/nonce", h.Nonce)
	r.POST("/auth/nonce", h.Nonce)
	r.POST("/auth/login", h.Login)
	return r
}

func getNonce(t *testing.T, r http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/nonce", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body["nonce"], 32)
	return body["nonce"]
}

func login(r http.Handler, name, nonce string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(gin.H{"name": name, "nonce": nonce})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ✅ 正常登录：签发 token，sub 为玩家名
func TestLoginIssuesToken(t *testing.T) {
	h := NewHandler(secret)
	r := router(h)

	w := login(r, "  alice ", getNonce(t, r))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["name"])

	tok, err := jwt.Parse(body["jwt"], func(tk *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	sub, err := tok.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	exp, err := tok.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp.Time, time.Minute)
}

// ✅ nonce 只能用一次
func TestNonceSingleUse(t *testing.T) {
	r := router(NewHandler(secret))
	nonce := getNonce(t, r)

	assert.Equal(t, http.StatusOK, login(r, "bob", nonce).Code)
	assert.Equal(t, http.StatusBadRequest, login(r, "bob", nonce).Code)
	assert.Equal(t, http.StatusBadRequest, login(r, "bob", "made-up").Code)
}

func TestLoginRejectsBadNames(t *testing.T) {
	r := router(NewHandler(secret))
	for _, name := range []string{"   ", "Bot 2", "this-name-is-way-too-long-for-a-seat"} {
		assert.Equal(t, http.StatusBadRequest, login(r, name, getNonce(t, r)).Code, name)
	}
}

func TestNonceExpiry(t *testing.T) {
	s := NewNonceStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	stale, err := s.Issue()
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	assert.False(t, s.Consume(stale))

	old, _ := s.Issue()
	now = now.Add(2 * time.Minute)
	_, _ = s.Issue()
	s.mu.Lock()
	_, kept := s.nonces[old]
	s.mu.Unlock()
	assert.False(t, kept, "expired nonces are swept on issue")
}

func TestNonceConcurrent(t *testing.T) {
	s := NewNonceStore(time.Minute)
	nonce, _ := s.Issue()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Consume(nonce) {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
}
