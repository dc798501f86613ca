package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageProxyController streams remote product images through the backend so
// the frontend never talks to third-party hosts directly.
type ImageProxyController struct {
	client *http.Client
	logger *zap.Logger
}

func NewImageProxyController(logger *zap.Logger) *ImageProxyController {
	return &ImageProxyController{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Proxy fetches ?url= and streams the body back when it is an image.
func (ic *ImageProxyController) Proxy(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	target, err := url.Parse(raw)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
		return
	}

	resp, err := ic.client.Do(req)
	if err != nil {
		ic.logger.Warn("Image fetch failed", zap.String("url", target.String()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch image"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream returned an error"})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "url does not point to an image"})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, resp.ContentLength, contentType, resp.Body, nil)
}
