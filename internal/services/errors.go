package services

import "errors"

// Sentinel errors the handlers map to HTTP statuses.
var (
	ErrConversationNotFound     = errors.New("conversation not found")
	ErrMessageNotFound          = errors.New("message not found")
	ErrSharedNotFound           = errors.New("shared conversation not found")
	ErrConversationEnded        = errors.New("conversation has ended")
	ErrConversationAlreadyEnded = errors.New("conversation already ended")
	ErrInvalidExportFormat      = errors.New("invalid export format")
)
