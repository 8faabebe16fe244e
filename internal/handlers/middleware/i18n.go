package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/orquesta-admin/internal/handlers/dto"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/i18n"
)

// Chaves de contexto reexportadas de dto, onde os helpers de tradução as leem
const (
	LanguageContextKey    = dto.LanguageContextKey
	I18nServiceContextKey = dto.I18nServiceContextKey
)

// I18nMiddleware escolhe o idioma de cada requisição entre os catálogos carregados
type I18nMiddleware struct {
	i18nService *i18n.Service
}

func NewI18nMiddleware(i18nService *i18n.Service) *I18nMiddleware {
	return &I18nMiddleware{i18nService: i18nService}
}

// DetectLanguage grava no contexto o idioma e o serviço de tradução.
// ?lang=xx vence quando suportado; depois vem a melhor correspondência do
// Accept-Language e por fim o idioma padrão.
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if !m.i18nService.IsLanguageSupported(lang) {
			lang = m.i18nService.Match(c.GetHeader("Accept-Language"))
		}
		if lang == "" {
			lang = m.i18nService.GetDefaultLanguage()
		}

		c.Set(LanguageContextKey, lang)
		c.Set(I18nServiceContextKey, m.i18nService)
		c.Next()
	}
}

// BaseURL publica no contexto a URL base usada nos tipos RFC 7807
func BaseURL(baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dto.BaseURLContextKey, baseURL)
		c.Next()
	}
}
