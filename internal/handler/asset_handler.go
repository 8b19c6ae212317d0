package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/stylerec/internal/filestore"
)

// AssetHandler serves previously derived images by their deterministic key.
// Only the local store supports read-through; an s3 store serves assets via
// its public URL instead.
type AssetHandler struct {
	store filestore.Store
}

func NewAssetHandler(store filestore.Store) *AssetHandler {
	return &AssetHandler{store: store}
}

func (h *AssetHandler) Get(c *gin.Context) {
	if h.store.Type() != "local" {
		c.Status(http.StatusNotFound)
		return
	}
	key := c.Param("key")
	file, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	_, _ = file.Seek(0, io.SeekStart)
	_, _ = io.Copy(c.Writer, file)
}
