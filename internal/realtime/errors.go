package realtime

import "errors"

var (
	ErrInvalidPath       = errors.New("invalid path")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrOverlappingPaths  = errors.New("update paths overlap")
	ErrCollectionWrite   = errors.New("collection paths can only be removed")
	ErrNotObject         = errors.New("record value must encode to a JSON object")
	ErrNotFound          = errors.New("record not found")
	ErrSubscribeLevel    = errors.New("subscriptions are collection scoped")
	ErrClosed            = errors.New("store is closed")
)
