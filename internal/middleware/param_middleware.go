package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// DateLayout: формат даты в URL (/plan/2025-01-06)
const DateLayout = "2006-01-02"

// ExtractUintParam создает middleware для извлечения и валидации числового параметра URL.
// paramName - имя параметра в URL (например, "id").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}

// ExtractDateParam разбирает параметр-дату в формате 2006-01-02 (UTC) и кладёт time.Time в контекст
func ExtractDateParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, err := time.Parse(DateLayout, c.Param(paramName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s, expected YYYY-MM-DD", paramName)})
			return
		}
		c.Set(contextKey, date)
		c.Next()
	}
}
