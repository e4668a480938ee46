package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// NonceStore 单次使用的 nonce，防止重放；过期的在下次签发时清理
type NonceStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	nonces map[string]time.Time // nonce -> 过期时间
	now    func() time.Time
}

func NewNonceStore(ttl time.Duration) *NonceStore {
	return &NonceStore{
		ttl:    ttl,
		nonces: make(map[string]time.Time),
		now:    time.Now,
	}
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Issue 生成并登记新 nonce
func (s *NonceStore) Issue() (string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for n, exp := range s.nonces {
		if !now.Before(exp) {
			delete(s.nonces, n)
		}
	}
	s.nonces[nonce] = now.Add(s.ttl)
	return nonce, nil
}

// Consume 校验并作废 nonce
func (s *NonceStore) Consume(nonce string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.nonces[nonce]
	if !ok {
		return false
	}
	delete(s.nonces, nonce)
	return s.now().Before(exp)
}

func (h *Handler) Nonce(c *gin.Context) {
	nonce, err := h.nonces.Issue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate nonce"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}
