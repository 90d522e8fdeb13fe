package shop

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SearchHandler proxies catalog searches, serving repeated queries from the
// cache. The default query mirrors the shop landing page.
func SearchHandler(client *Client, cache *Cache, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")
		if query == "" {
			query = "creatine"
		}
		ctx := c.Request.Context()

		if products, ok := cache.Get(ctx, query); ok {
			c.JSON(http.StatusOK, gin.H{"products": products})
			return
		}

		products, err := client.Search(ctx, query)
		if err != nil {
			logger.Error("shop search failed", "query", query, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		cache.Set(ctx, query, products)

		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}
