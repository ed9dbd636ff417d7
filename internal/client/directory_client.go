package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ErrDirectoryUnavailable is returned when the event directory cannot
// be reached.
var ErrDirectoryUnavailable = fmt.Errorf("event directory unavailable")

// DirectoryClient wraps the event directory HTTP API. It confirms that
// a room identifier belongs to a real event before a join is admitted.
// Lookups are cached so a busy room does not hammer the directory.
type DirectoryClient struct {
	baseURL    string
	httpClient *http.Client
	cache      map[string]cachedLookup
	cacheTTL   time.Duration
	mu         sync.RWMutex
}

type cachedLookup struct {
	exists    bool
	expiresAt time.Time
}

// NewDirectoryClient creates a new event directory client.
func NewDirectoryClient(baseURL string, cacheTTL time.Duration) *DirectoryClient {
	return &DirectoryClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    make(map[string]cachedLookup),
		cacheTTL: cacheTTL,
	}
}

// RoomExists reports whether the directory knows the room.
func (c *DirectoryClient) RoomExists(ctx context.Context, roomID string) (bool, error) {
	if exists, ok := c.getFromCache(roomID); ok {
		return exists, nil
	}

	url := fmt.Sprintf("%s/api/v1/events/%s", c.baseURL, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		c.addToCache(roomID, true)
		return true, nil
	case http.StatusNotFound:
		c.addToCache(roomID, false)
		return false, nil
	default:
		return false, fmt.Errorf("event directory returned status: %d", resp.StatusCode)
	}
}

func (c *DirectoryClient) getFromCache(roomID string) (exists, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cached, hit := c.cache[roomID]; hit {
		if time.Now().Before(cached.expiresAt) {
			return cached.exists, true
		}
	}
	return false, false
}

func (c *DirectoryClient) addToCache(roomID string, exists bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[roomID] = cachedLookup{
		exists:    exists,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}
