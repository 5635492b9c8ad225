package middleware

import (
	"bytes"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cachedResponse сохранённый ответ GET запроса
type cachedResponse struct {
	status int
	body   []byte
}

// captureWriter копирует тело ответа для кеша
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}

// ResponseCache кеширует успешные GET ответы на короткий TTL
// Используется для сетки слотов: данные быстро устаревают,
// но выдерживают секунды запаздывания
type ResponseCache struct {
	store *gocache.Cache
}

// NewResponseCache создает новый экземпляр кеша ответов
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

// Handler оборачивает следующий обработчик кешированием GET ответов
func (c *ResponseCache) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if cached, ok := c.store.Get(key); ok {
			resp := cached.(cachedResponse)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(resp.status)
			_, _ = w.Write(resp.body)
			return
		}

		capture := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(capture, r)

		if capture.status == http.StatusOK {
			c.store.SetDefault(key, cachedResponse{
				status: capture.status,
				body:   capture.body.Bytes(),
			})
		}
	})
}
