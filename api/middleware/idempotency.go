package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexusmart/storefront-gateway/api/responses"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
	pkgredis "github.com/nexusmart/storefront-gateway/pkg/redis"
)

const (
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// guardedRoute marks one method+path combination as idempotent. Routes
// that move money keep their records for a week; the rest for a day.
type guardedRoute struct {
	method string
	match  func(path string) bool
	ttl    time.Duration
}

var guardedRoutes = []guardedRoute{
	{http.MethodPost, exactPath("/api/v1/auth/register"), defaultIdempotencyTTL},
	{http.MethodPost, exactPath("/api/v1/admin/inventory"), defaultIdempotencyTTL},
	{http.MethodPost, exactPath("/api/v1/admin/shipments"), defaultIdempotencyTTL},
	{http.MethodPost, exactPath("/api/v1/checkout"), criticalIdempotencyTTL},
	{http.MethodPost, boundedPath("/api/v1/orders/", "/cancel"), criticalIdempotencyTTL},
}

func exactPath(want string) func(string) bool {
	return func(path string) bool { return path == want }
}

func boundedPath(prefix, suffix string) func(string) bool {
	return func(path string) bool {
		return strings.HasPrefix(path, prefix) && strings.HasSuffix(path, suffix)
	}
}

// guardTTL matches on the normalized request path rather than chi's
// route pattern: mid-chain the pattern is still a wildcard
// (/api/v1/*), so the path is the only stable identity.
func guardTTL(r *http.Request) (time.Duration, bool) {
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, route := range guardedRoutes {
		if route.method == r.Method && route.match(path) {
			return route.ttl, true
		}
	}
	return 0, false
}

// storedResponse is the replay record persisted in Redis. The request
// hash detects a key reused with a different body.
type storedResponse struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

// Idempotency replays the first response for repeated Idempotency-Key
// values on guarded routes. A nil store disables the guard.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, guarded := guardTTL(r)
			if !guarded || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			clientKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if clientKey == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashRequestBody(body)
			key := store.IdempotencyKey(requestScope(r), clientKey)

			stored, err := store.Get(ctx, key)
			switch {
			case err != nil && !errors.Is(err, redis.Nil):
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			case stored != "":
				var record storedResponse
				if err := json.Unmarshal([]byte(stored), &record); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
					return
				}
				if record.RequestHash != requestHash {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				replay(w, record)
				return
			}

			capture := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			record := storedResponse{
				Status:      capture.statusOrOK(),
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				RequestHash: requestHash,
			}
			if ct := capture.Header().Get("Content-Type"); ct != "" {
				record.Headers = map[string]string{"Content-Type": ct}
			}

			payload, err := json.Marshal(record)
			if err != nil {
				if logg != nil {
					logg.Error(ctx, "marshal idempotency record", err)
				}
				return
			}
			if _, err := store.SetNX(ctx, key, string(payload), ttl); err != nil && logg != nil {
				logg.Error(ctx, "persist idempotency record", err)
			}
		})
	}
}

// requestScope isolates records per customer so two customers using the
// same client-generated key never collide.
func requestScope(r *http.Request) string {
	customerRef := ""
	if sess, ok := SessionFromContext(r.Context()); ok {
		customerRef = sess.CustomerRef
	}
	return strings.Join([]string{customerRef, r.Method, r.URL.Path}, "|")
}

func replay(w http.ResponseWriter, record storedResponse) {
	if ct := record.Headers["Content-Type"]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashRequestBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// captureWriter tees the response so it can be persisted for replay.
type captureWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *captureWriter) statusOrOK() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
