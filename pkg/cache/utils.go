package cache

import (
	"fmt"
	"strings"
)

// GenerateKey creates a cache key with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// StockKey is the key a stock payload is cached under.
func StockKey(symbol string) string {
	return "stock_" + strings.ToUpper(symbol)
}

// LockKey names the lock guarding work on id.
func LockKey(scope, id string) string {
	return GenerateKey("lock:"+scope, strings.ToUpper(id))
}
