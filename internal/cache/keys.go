package cache

// KeyPrefix - префиксы для разных типов ключей
type KeyPrefix string

const (
	// PrefixDedup keys answer "was this full URL already shortened".
	// Redirect targets are never cached under any prefix.
	PrefixDedup     KeyPrefix = "dedup" // dedup:fullURL
	PrefixRateLimit KeyPrefix = "rate"  // rate:clientIP
)

// KeyBuilder - построитель ключей кэша
type KeyBuilder struct {
	namespace string // Опциональный namespace для multi-tenancy
}

// NewKeyBuilder создает новый построитель ключей
func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

// Build создает ключ с префиксом и опциональным namespace
func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// Dedup создает ключ для маппинга fullURL -> ShortLink
func (k *KeyBuilder) Dedup(fullURL string) string {
	return k.Build(PrefixDedup, fullURL)
}

// RateLimit создает ключ для rate limiting
func (k *KeyBuilder) RateLimit(clientIP string) string {
	return k.Build(PrefixRateLimit, clientIP)
}

// DefaultKeyBuilder - построитель ключей по умолчанию
var DefaultKeyBuilder = NewKeyBuilder("")
