package idempotency

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/response"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"

	maxKeyLength = 255
)

type bodyWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware must run after auth; keys are scoped per account and route.
// Only 2xx responses are stored. Anything else releases the key so the
// client can retry. A nil store disables the check.
func Middleware(store Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderKey))
		if store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > maxKeyLength {
			response.BadRequest(c, "Idempotency-Key too long")
			return
		}

		log := logger.FromCtx(c.Request.Context()).With(
			zap.String("layer", "middleware"),
			zap.String("idempotency_key", key),
		)

		userID, _ := utils.GetUserIDFromContext(c.Request.Context())
		scoped := fmt.Sprintf("user:%d:%s:%s:%s", userID, c.Request.Method, c.FullPath(), key)
		// bookkeeping must survive a client disconnect
		ctx := context.WithoutCancel(c.Request.Context())

		reserved, err := store.Reserve(ctx, scoped, ttl)
		if err != nil {
			log.Warn("idempotency store unavailable, continuing without it", zap.Error(err))
			c.Next()
			return
		}

		if !reserved {
			rec, err := store.Load(ctx, scoped)
			if err != nil {
				log.Warn("failed to load idempotency record", zap.Error(err))
			}
			if rec.Done() {
				log.Info("replaying stored response", zap.Int("status", rec.Status))
				c.Header(HeaderReplayed, "true")
				c.Data(rec.Status, rec.ContentType, rec.Body)
				c.Abort()
				return
			}
			response.Abort(c, http.StatusConflict, "IDEMPOTENCY_CONFLICT", "a request with this Idempotency-Key is already in progress")
			return
		}

		w := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = w

		// a panicking handler never reaches the save below; free the key
		// before the recovery middleware takes over
		defer func() {
			if p := recover(); p != nil {
				if err := store.Release(ctx, scoped); err != nil {
					log.Warn("failed to release idempotency key", zap.Error(err))
				}
				panic(p)
			}
		}()
		c.Next()

		status := w.Status()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			rec := Record{
				Status:      status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        w.body.Bytes(),
			}
			if err := store.Save(ctx, scoped, rec, ttl); err != nil {
				log.Warn("failed to save idempotency record", zap.Error(err))
			}
			return
		}

		if err := store.Release(ctx, scoped); err != nil {
			log.Warn("failed to release idempotency key", zap.Error(err))
		}
	}
}
