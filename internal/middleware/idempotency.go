package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	idempotencyPrefix = "idempotency:"
)

// storedReply is the recorded response for an idempotency key.
type storedReply struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// replyRecorder wraps gin.ResponseWriter to keep a copy of the body.
type replyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *replyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the recorded response when a mutating request
// carries an Idempotency-Key that was already processed. A client retrying a
// payment registration after a timeout therefore cannot record it twice.
func IdempotencyMiddleware(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if key == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := replyKey(c.Request.Method, c.FullPath(), key)

		if reply := loadReply(ctx, client, cacheKey); reply != nil {
			c.Data(reply.StatusCode, reply.ContentType, reply.Body)
			c.Abort()
			return
		}

		recorder := &replyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		// Do not record server errors; the client should be able to retry them.
		if status := c.Writer.Status(); status >= 200 && status < 500 {
			storeReply(ctx, client, cacheKey, &storedReply{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			})
		}
	}
}

// replyKey scopes a client key to the endpoint so reusing one Idempotency-Key
// across operations cannot replay another endpoint's response.
func replyKey(method, path, key string) string {
	return idempotencyPrefix + method + ":" + path + ":" + key
}

func loadReply(ctx context.Context, client *redis.Client, key string) *storedReply {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil // miss, or Redis unavailable; proceed without idempotency
	}

	var reply storedReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil
	}
	return &reply
}

func storeReply(ctx context.Context, client *redis.Client, key string, reply *storedReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	_ = client.Set(ctx, key, data, idempotencyTTL).Err()
}
