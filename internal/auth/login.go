package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTTL      = 24 * time.Hour
	maxNameLength = 24
)

var ErrInvalidName = errors.New("invalid name")

type LoginRequest struct {
	Name  string `json:"name" binding:"required"`
	Nonce string `json:"nonce" binding:"required"`
}

type Handler struct {
	secret []byte
	nonces *NonceStore
	now    func() time.Time
}

// 工厂方法：创建 handler
func NewHandler(secret []byte) *Handler {
	return &Handler{
		secret: secret,
		nonces: NewNonceStore(5 * time.Minute),
		now:    time.Now,
	}
}

// ValidateName 名字即身份：去掉首尾空白，1-24 个字符，不允许冒充机器人
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > maxNameLength {
		return "", ErrInvalidName
	}
	if strings.HasPrefix(strings.ToLower(name), "bot ") {
		return "", ErrInvalidName
	}
	return name, nil
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	// 检查 nonce 是否有效（只允许一次）
	if !h.nonces.Consume(req.Nonce) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}

	name, err := ValidateName(req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// -----------------------------
	// ✓ 生成 JWT
	// -----------------------------
	jwtStr, err := h.Issue(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jwt":  jwtStr,
		"name": name,
	})
}

// Issue 签发 HS256 token，sub 为玩家名
func (h *Handler) Issue(name string) (string, error) {
	now := h.now()
	claims := jwt.MapClaims{
		"sub": name,
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}
