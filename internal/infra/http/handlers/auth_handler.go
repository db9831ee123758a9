package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type AuthHandler struct {
	accessIDs   []string
	passwords   []string
	rateLimiter *RateLimiter
}

// NewAuthHandler takes the comma-separated credential lists already split by
// main. ids[i] pairs with passwords[i].
func NewAuthHandler(accessIDs, passwords []string) *AuthHandler {
	return &AuthHandler{
		accessIDs:   accessIDs,
		passwords:   passwords,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 attempts/min per IP
	}
}

type LoginRequest struct {
	AccessID string `json:"accessId"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, LoginResponse{
			Success: false,
			Message: "Too many attempts. Please try again later.",
		})
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, LoginResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	if !h.validCredentials(req.AccessID, req.Password) {
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Message: "Invalid credentials"})
		return
	}

	token, err := generateToken(req.AccessID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, LoginResponse{Success: false, Message: "Failed to issue token"})
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Success: true, Token: token})
}

func (h *AuthHandler) validCredentials(accessID, password string) bool {
	if accessID == "" || password == "" {
		return false
	}
	for i, id := range h.accessIDs {
		if id == accessID && i < len(h.passwords) && h.passwords[i] == password {
			return true
		}
	}
	return false
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
