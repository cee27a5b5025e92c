package clients

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valkey-io/valkey-go"
)

type ValkeyOptions struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
	// Healthy is cleared on the first connection error so scoring stops
	// consulting the cache until the health check reaches it again.
	Healthy *atomic.Bool
}

// ValkeyClient caches raw polarity scores. A dropped connection is rebuilt
// in the background, so callers keep the same *ValkeyClient.
type ValkeyClient struct {
	client     valkey.Client
	opts       ValkeyOptions
	mu         sync.RWMutex
	recreating atomic.Bool
	dial       func(ValkeyOptions) (valkey.Client, error)
}

func NewValkeyClient(opts ValkeyOptions) (*ValkeyClient, error) {
	if opts.Address == "" {
		return nil, fmt.Errorf("[ValkeyClient] missing address")
	}
	if opts.TTL <= 0 {
		opts.TTL = DEFAULT_CACHE_TTL
	}

	client, err := dialValkey(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", opts.Address),
		slog.Duration("ttl", opts.TTL))

	return &ValkeyClient{client: client, opts: opts, dial: dialValkey}, nil
}

func dialValkey(opts ValkeyOptions) (valkey.Client, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Address},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if opts.UseTLS {
		clientOpts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), PING_TIMEOUT)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

func (vc *ValkeyClient) current() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.client
}

// recreateClient dials a replacement and swaps it in. Only one recreation
// runs at a time; concurrent callers return immediately. The lock is held
// only for the swap, never across the dial.
func (vc *ValkeyClient) recreateClient() {
	if !vc.recreating.CompareAndSwap(false, true) {
		return
	}
	defer vc.recreating.Store(false)

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := vc.dial(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.mu.Lock()
	old := vc.client
	vc.client = client
	vc.mu.Unlock()

	if old != nil {
		old.Close()
	}
	slog.Info("[ValkeyClient] Valkey client recreated")
}

// handleConnectionError marks the cache unhealthy and starts a background
// redial when err is a connection failure.
func (vc *ValkeyClient) handleConnectionError(err error) {
	if !isConnectionError(err) {
		return
	}
	if vc.opts.Healthy != nil && vc.opts.Healthy.Swap(false) {
		slog.Warn("[ValkeyClient] Connection lost, bypassing score cache",
			slog.String("error", err.Error()))
	}
	go vc.recreateClient()
}

func (vc *ValkeyClient) Close() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.client != nil {
		vc.client.Close()
	}
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	client := vc.current()
	err := client.Do(ctx, client.B().Ping().Build()).Error()
	if isConnectionError(err) {
		vc.recreateClient()
	}
	return err
}

// GetScore reports ok=false on a cache miss.
func (vc *ValkeyClient) GetScore(ctx context.Context, key string) (float64, bool, error) {
	res := vc.DoWithRetry(ctx, func(b valkey.Builder) valkey.Completed {
		return b.Get().Key(key).Build()
	}, MAX_RETRIES)

	err := res.Error()
	if valkey.IsValkeyNil(err) {
		return 0, false, nil
	}
	if err != nil {
		vc.handleConnectionError(err)
		return 0, false, err
	}

	raw, err := res.ToString()
	if err != nil {
		return 0, false, err
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("[ValkeyClient] corrupt score under %s: %w", key, err)
	}

	return score, true, nil
}

func (vc *ValkeyClient) SetScore(ctx context.Context, key string, score float64) error {
	ttl := int64(vc.opts.TTL / time.Second)
	responses := vc.DoMultiWithRetry(ctx, func(b valkey.Builder) []valkey.Completed {
		return []valkey.Completed{
			b.Set().Key(key).Value(strconv.FormatFloat(score, 'g', -1, 64)).Build(),
			b.Expire().Key(key).Seconds(ttl).Build(),
		}
	}, MAX_RETRIES)

	for _, res := range responses {
		if err := res.Error(); err != nil {
			vc.handleConnectionError(err)
			return err
		}
	}

	slog.Debug("[ValkeyClient] Cached score",
		slog.String("key", key))
	return nil
}

// DoMultiWithRetry builds fresh commands from the current client on every
// attempt; a Completed is recycled by valkey once sent and must not be reused.
func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, build func(valkey.Builder) []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	withRetry(ctx, retries, "Do Multi", func() error {
		client := vc.current()
		results = client.DoMulti(ctx, build(client.B())...)
		for _, r := range results {
			if err := r.Error(); err != nil {
				return err
			}
		}
		return nil
	})

	return results
}

// DoWithRetry builds a fresh command from the current client on every attempt.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Builder) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult

	withRetry(ctx, retries, "Do", func() error {
		client := vc.current()
		result = client.Do(ctx, build(client.B()))
		if err := result.Error(); err != nil && !valkey.IsValkeyNil(err) {
			return err
		}
		return nil
	})

	return result
}

// withRetry runs attempt up to retries times. Connection errors are not
// retried: the caller bypasses the cache while the client is rebuilt.
func withRetry(ctx context.Context, retries int, op string, attempt func() error) error {
	var err error
	for i := 0; i < retries; i++ {
		err = attempt()
		if err == nil || isConnectionError(err) {
			return err
		}

		slog.Warn("[ValkeyClient] "+op+" failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		if i == retries-1 || !sleepCtx(ctx, RETRY_BACKOFF) {
			break
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, valkey.ErrClosing) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
