package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const sessionTTL = 24 * time.Hour

// TokenClaims represents the payload of a session token
// TokenClaims 代表会话令牌负载
type TokenClaims struct {
	Role string `json:"role"`
	Exp  int64  `json:"exp"`
	Iat  int64  `json:"iat"`
}

// signToken creates a signed token string
// signToken 创建一个已签名的令牌字符串
func signToken(claims TokenClaims, secret string) (string, error) {
	header := `{"alg":"HS256","typ":"JWT"}`
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(header))

	payloadBytes, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	unsigned := headerEnc + "." + base64.RawURLEncoding.EncodeToString(payloadBytes)
	return unsigned + "." + sign(unsigned, secret), nil
}

func sign(unsigned, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(unsigned))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// verifyToken checks the signature and expiration of the token
// verifyToken 检查令牌的签名和过期时间
func verifyToken(tokenString string, secret string, now time.Time) (*TokenClaims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token format")
	}

	unsigned := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(sign(unsigned, secret))) {
		return nil, errors.New("invalid signature")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}
	var claims TokenClaims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return nil, err
	}
	if now.Unix() > claims.Exp {
		return nil, errors.New("token expired")
	}
	return &claims, nil
}

func (s *Server) tokenMatches(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.web.Token)) == 1
}

// withAuth requires a session token or the master token when web.token is set.
// Accepts "Authorization: Bearer <token>" and the X-CyberGuard-Token header.
// withAuth 在设置了 web.token 时要求令牌认证。
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.web.Token == "" {
			next.ServeHTTP(w, r)
			return
		}

		// 1. Bearer session token or master token
		// 1. Bearer 会话令牌或主令牌
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			if s.tokenMatches(token) {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := verifyToken(token, s.web.Token, time.Now()); err == nil {
				next.ServeHTTP(w, r)
				return
			}
		}

		// 2. Plain header
		// 2. 普通头部
		if token := r.Header.Get("X-CyberGuard-Token"); token != "" && s.tokenMatches(token) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("WWW-Authenticate", `Bearer realm="cyberguard"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

// handleLogin exchanges the master token for a session token
// handleLogin 将主令牌交换为会话令牌
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.web.Token == "" {
		http.Error(w, "Authentication disabled", http.StatusNotFound)
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		http.Error(w, "Invalid Request", http.StatusBadRequest)
		return
	}
	if !s.tokenMatches(req.Token) {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	signed, err := signToken(TokenClaims{
		Role: "admin",
		Exp:  now.Add(sessionTTL).Unix(),
		Iat:  now.Unix(),
	}, s.web.Token)
	if err != nil {
		http.Error(w, "Failed to sign token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"token":      signed,
		"expires_at": now.Add(sessionTTL).UTC(),
	})
}
