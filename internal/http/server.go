// Package http exposes the tracker over a JSON API: record mutations,
// metrics and drill-downs, notifications, the rate table, and the chat
// boundary to the assistant.
package http

import (
	"container/list"
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/assistant"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

// LRU cache with TTL and size-based eviction for metric responses.
type lruCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func newLRUCache[T any](maxSize int, ttl time.Duration) *lruCache[T] {
	return &lruCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *lruCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if time.Now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *lruCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

func (c *lruCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// CleanExpired removes all expired entries
func (c *lruCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*cacheItem[T]).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	// Reset the counter once a minute has passed.
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute.
	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

type Server struct {
	http.Server
	service         *services.LedgerService
	model           *assistant.Client
	displayCurrency core.CurrencyCode
	rateLimiter     *rateLimiter

	summaryCache *lruCache[core.Summary]
	itemsCache   *lruCache[[]core.LineItem]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
// model may be nil; the chat endpoint then uses the fallback parser only.
func NewServer(addr string, service *services.LedgerService, model *assistant.Client, displayCurrency core.CurrencyCode) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		service:          service,
		model:            model,
		displayCurrency:  displayCurrency,
		rateLimiter:      newRateLimiter(),
		summaryCache:     newLRUCache[core.Summary](50, 5*time.Minute),
		itemsCache:       newLRUCache[[]core.LineItem](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("GET /api/metrics", s.limited(s.handleMetrics))
	mux.HandleFunc("GET /api/metrics/{kind}/items", s.limited(s.handleDrillDown))

	mux.HandleFunc("GET /api/rates", s.limited(s.handleGetRates))
	mux.HandleFunc("PUT /api/rates", s.limited(s.handlePutRates))

	mux.HandleFunc("GET /api/debts", s.limited(s.handleListDebts))
	mux.HandleFunc("POST /api/debts", s.limited(s.handleAddDebt))
	mux.HandleFunc("PUT /api/debts/{id}", s.limited(s.handleUpdateDebt))
	mux.HandleFunc("DELETE /api/debts/{id}", s.limited(s.handleDeleteDebt))

	mux.HandleFunc("GET /api/expenses", s.limited(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.limited(s.handleAddExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.limited(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.limited(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/assets", s.limited(s.handleListAssets))
	mux.HandleFunc("POST /api/assets", s.limited(s.handleAddAsset))
	mux.HandleFunc("PUT /api/assets/{id}", s.limited(s.handleUpdateAsset))
	mux.HandleFunc("DELETE /api/assets/{id}", s.limited(s.handleDeleteAsset))

	mux.HandleFunc("GET /api/goals", s.limited(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.limited(s.handleAddGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.limited(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.limited(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/notifications", s.limited(s.handleListNotifications))
	mux.HandleFunc("POST /api/notifications/{id}/ack", s.limited(s.handleAckNotification))

	mux.HandleFunc("POST /api/chat", s.limited(s.handleChat))

	return s
}

// limited wraps a handler with the per-client rate limit.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.summaryCache.CleanExpired()
			s.itemsCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
