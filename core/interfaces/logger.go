// ABOUTME: Structured logging contract shared by core and infrastructure
// ABOUTME: Implemented by the logrus and zap adapters

package interfaces

// Logger writes leveled messages with structured fields. Fields may be nil.
//
//	logger.Info("Page loaded", map[string]interface{}{
//		"article_id": 42,
//		"page":       3,
//	})
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	// Warn is for recoverable failures such as a translation or save retry
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
