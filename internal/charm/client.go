// ABOUTME: Charm KV client wrapper for hosted practice storage.
// ABOUTME: One document per practice, synced to Charm Cloud after writes.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/practice/internal/storage"
)

const (
	// DBName is the Charm KV database holding practices.
	DBName = "practice"

	// DefaultHost is the Charm server used when none is configured.
	DefaultHost = "charm.2389.dev"

	PracticePrefix = "practice:"
	SeededKey      = "meta:seeded"
)

// ErrReadOnly is returned for writes while another process holds the lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (practice mcp?)")

// KV is the subset of *kv.KV the client relies on.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	IsReadOnly() bool
	Close() error
}

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client stores practices in a Charm KV database.
type Client struct {
	kv       KV
	autoSync bool
	mu       sync.RWMutex
}

// NewClient wraps an already opened KV. Auto-sync starts enabled.
func NewClient(db KV) *Client {
	return &Client{kv: db, autoSync: true}
}

// InitClient opens the global Charm client against host (DefaultHost when
// empty) and pulls remote data. Thread-safe; later calls return the first
// client.
func InitClient(host string) (*Client, error) {
	clientOnce.Do(func() {
		if host == "" {
			host = DefaultHost
		}
		// The charm client reads its server from the environment.
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			clientErr = err
			return
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = fmt.Errorf("open charm kv: %w", err)
			return
		}

		globalClient = NewClient(db)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like the MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// syncIfEnabled pushes after a write. Sync failures are swallowed: the
// local write already succeeded and the next write retries the push.
// Callers hold c.mu.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// write applies fn under the write lock, then syncs once.
func (c *Client) write(fn func(KV) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := fn(c.kv); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// keysWithPrefix lists keys starting with prefix. Callers hold c.mu.
func (c *Client) keysWithPrefix(prefix string) ([][]byte, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	var matches [][]byte
	for _, key := range keys {
		if bytes.HasPrefix(key, []byte(prefix)) {
			matches = append(matches, key)
		}
	}
	return matches, nil
}

// listByPrefix returns all values with keys matching the given prefix.
func (c *Client) listByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.keysWithPrefix(prefix)
	if err != nil {
		return nil, err
	}
	results := make([][]byte, 0, len(keys))
	for _, key := range keys {
		val, err := c.kv.Get(key)
		if err != nil {
			return nil, err
		}
		results = append(results, val)
	}
	return results, nil
}

// getByIDPrefix retrieves a single value by ID prefix match.
// Returns error if no match or multiple matches found.
func (c *Client) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", storage.ErrNotFound)
	}
	keys, err := c.keysWithPrefix(typePrefix + idPrefix)
	if err != nil {
		return nil, err
	}
	switch len(keys) {
	case 0:
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, idPrefix)
	case 1:
		return c.kv.Get(keys[0])
	default:
		return nil, fmt.Errorf("%w %s: matches multiple practices", storage.ErrAmbiguous, idPrefix)
	}
}

// has reports whether key exists.
func (c *Client) has(key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.keysWithPrefix(key)
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if string(k) == key {
			return true, nil
		}
	}
	return false, nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
