// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/clarashop/clara-backend/internal/i18n"

	"github.com/gin-gonic/gin"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get language from header
		lang := c.GetHeader("Accept-Language")

		// Parse language preference
		if lang != "" {
			// Handle cases like "fr-TN,fr;q=0.9,ar;q=0.8"
			langs := strings.Split(lang, ",")
			if len(langs) > 0 {
				firstLang := strings.TrimSpace(strings.Split(langs[0], ";")[0])
				switch firstLang {
				case "fr", "fr-FR", "fr-TN", "fr_TN":
					lang = "fr"
				case "en", "en-US", "en-GB":
					lang = "en"
				default:
					lang = i18n.DefaultLang()
				}
			}
		} else {
			lang = i18n.DefaultLang()
		}

		// Set language in context
		c.Set("lang", lang)
		c.Next()
	}
}
