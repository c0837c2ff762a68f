package handler

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/theoleuthardt/backlog-manager/internal/api/middleware"
	"github.com/theoleuthardt/backlog-manager/internal/storage"
)

// ImageHandler proxies game cover images so the browser never talks to
// the HowLongToBeat CDN directly (CORS, referrer checks). When a cover
// cache is configured, fetched images are stored once and served from
// the cache on subsequent requests.
type ImageHandler struct {
	client *resty.Client
	cache  storage.ObjectStorage // nil disables caching
}

// NewImageHandler creates a new image proxy handler.
// Parameters:
//   - cache: cover cache storage; nil disables caching.
// Returns:
//   - *ImageHandler: initialized handler.
func NewImageHandler(cache storage.ObjectStorage) *ImageHandler {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &ImageHandler{
		client: client,
		cache:  cache,
	}
}

// Proxy handles GET /api/v1/image-proxy?url=.
func (h *ImageHandler) Proxy(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'url' is required",
		})
		return
	}

	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image URL"})
		return
	}

	ctx := c.Request.Context()
	key := coverCacheKey(raw)

	// Serve from cache when possible
	if h.cache != nil {
		exists, err := h.cache.Exists(ctx, key)
		if err != nil {
			middleware.GetLogger(c).WithError(err).Warn("Cover cache lookup failed")
		} else if exists {
			c.Redirect(http.StatusFound, h.cache.GetURL(key))
			return
		}
	}

	resp, err := h.client.R().SetContext(ctx).Get(raw)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to fetch image: " + err.Error(),
		})
		return
	}
	if resp.IsError() {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Upstream returned status " + resp.Status(),
		})
		return
	}

	body := resp.Body()
	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if h.cache != nil {
		if err := h.cache.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), contentType); err != nil {
			// Cache failures degrade to plain proxying
			middleware.GetLogger(c).WithError(err).Warn("Failed to cache cover image")
		}
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, body)
}

// coverCacheKey buckets cached covers by URL hash prefix.
func coverCacheKey(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	digest := hex.EncodeToString(sum[:])
	return digest[:2] + "/" + digest
}
