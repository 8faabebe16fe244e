package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/orquesta-admin/internal/infrastructure/i18n"
)

const (
	// LanguageContextKey é a chave usada para armazenar o idioma no contexto do Gin
	LanguageContextKey = "language"
	// I18nServiceContextKey é a chave usada para armazenar o serviço i18n no contexto
	I18nServiceContextKey = "i18n_service"
	// BaseURLContextKey guarda a URL base usada nos tipos RFC 7807
	BaseURLContextKey = "base_url"

	fallbackLanguage = "es"
)

// T é um helper para traduzir mensagens no contexto do Gin
// Uso: dto.T(c, "error.not_found.detail", map[string]interface{}{"Resource": "Rol"})
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	service := i18nService(c)
	if service == nil {
		return key
	}

	return service.T(GetLanguage(c), key, params...)
}

// TOr traduz key ou, se ela não existir no catálogo, fallbackKey
func TOr(c *gin.Context, key, fallbackKey string, params ...map[string]interface{}) string {
	service := i18nService(c)
	if service == nil {
		return key
	}
	if !service.Has(key) {
		key = fallbackKey
	}
	return service.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	lang, exists := c.Get(LanguageContextKey)
	if !exists {
		return fallbackLanguage
	}

	langStr, ok := lang.(string)
	if !ok {
		return fallbackLanguage
	}

	return langStr
}

func i18nService(c *gin.Context) *i18n.Service {
	value, exists := c.Get(I18nServiceContextKey)
	if !exists {
		return nil
	}
	service, _ := value.(*i18n.Service)
	return service
}
