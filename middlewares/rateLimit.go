package middlewares

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/PrayerLoop/models"
)

// RateLimiter hands out one token bucket per client key. Each route group
// gets its own RateLimiter, so buckets with different rates never share a
// key.
type RateLimiter struct {
	name    string
	rate    rate.Limit
	burst   int
	keyFunc func(*gin.Context) string

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewRateLimiter(name string, r rate.Limit, b int, keyFunc func(*gin.Context) string) *RateLimiter {
	if keyFunc == nil {
		keyFunc = ClientKey
	}
	return &RateLimiter{
		name:    name,
		rate:    r,
		burst:   b,
		keyFunc: keyFunc,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.buckets[key]
	if !exists {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.buckets[key] = limiter
	}
	return limiter
}

// retryAfter is the whole number of seconds until one token refills.
func (l *RateLimiter) retryAfter() string {
	if l.rate <= 0 {
		return "60"
	}
	return strconv.Itoa(int(math.Ceil(1 / float64(l.rate))))
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.keyFunc(c)

		if !l.limiter(key).Allow() {
			log.Printf("[RateLimit] %s: rejected %s %s for %s", l.name, c.Request.Method, c.FullPath(), key)
			c.Header("Retry-After", l.retryAfter())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please slow down :("})
			return
		}

		c.Next()
	}
}

// ClientKey buckets signed-in users by account and everyone else by IP.
// It must run after OptionalAuth or CheckAuth to see the user.
func ClientKey(c *gin.Context) string {
	if v, ok := c.Get("currentUser"); ok {
		if user, ok := v.(models.UserProfile); ok && user.User_Profile_ID != 0 {
			return "user:" + strconv.Itoa(user.User_Profile_ID)
		}
	}
	return "ip:" + c.ClientIP()
}
