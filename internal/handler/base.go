// Package handler defines the HTTP surface over the pool service.
package handler

import "go.uber.org/zap"

// BaseHandler provides common dependencies for HTTP handlers.
type BaseHandler struct {
	logger *zap.Logger
}
