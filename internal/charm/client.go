// ABOUTME: Charm KV client wrapper for syncing templates across machines
// ABOUTME: Authenticates with SSH keys and stores templates and the profile as JSON
package charm

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harper/letterkit/internal/models"
)

// KV key prefixes
const (
	TemplatePrefix = "template:"
	ProfilePrefix  = "profile:"
)

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for charm client
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "letterkit",
		AutoSync: true,
	}
}

// Store is the subset of charm's KV used here
type Store interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Close() error
}

// Client wraps charm KV for sync operations
type Client struct {
	kv     Store
	config *Config
	mu     sync.Mutex
}

// NewClient opens the charm KV database named in cfg
func NewClient(cfg *Config) (*Client, error) {
	// charm reads the host from the environment
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := NewClientWithStore(db, cfg)
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return c, nil
}

// NewClientWithStore wraps an already opened store
func NewClientWithStore(store Store, cfg *Config) *Client {
	return &Client{kv: store, config: cfg}
}

// Close releases the KV database; later calls are no-ops
func (c *Client) Close() error {
	if c.kv == nil {
		return nil
	}
	err := c.kv.Close()
	c.kv = nil
	return err
}

// syncIfEnabled pushes pending writes; callers hold c.mu
func (c *Client) syncIfEnabled() {
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
}

// ID returns the charm account ID bound to the local SSH key
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to reach charm: %w", err)
	}
	return cc.ID()
}

// PutTemplate stores one template under its template key
func (c *Client) PutTemplate(t *models.Template) error {
	return c.putJSON(TemplateKey(t.ID), t)
}

// DeleteTemplate removes a template from the KV store and syncs
func (c *Client) DeleteTemplate(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete([]byte(TemplateKey(id))); err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}
	c.syncIfEnabled()
	return nil
}

func (c *Client) putJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.kv.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// getJSON decodes the value at key into dest; a missing key is an error
func (c *Client) getJSON(key string, dest any) error {
	c.mu.Lock()
	data, err := c.kv.Get([]byte(key))
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%s not found", key)
	}
	return json.Unmarshal(data, dest)
}

// ListKeys returns the stored keys that start with prefix, sorted
func (c *Client) ListKeys(prefix string) ([]string, error) {
	c.mu.Lock()
	keys, err := c.kv.Keys()
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var matched []string
	for _, key := range keys {
		if s := string(key); strings.HasPrefix(s, prefix) {
			matched = append(matched, s)
		}
	}
	sort.Strings(matched)
	return matched, nil
}

// Sync exchanges pending changes with the charm server
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// TemplateKey is the KV key of one template
func TemplateKey(id string) string {
	return TemplatePrefix + id
}

// ProfileKey is the KV key of the sender profile
func ProfileKey() string {
	return ProfilePrefix + "sender"
}
