package shotlist

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNotPinned        = errors.New("shot number is not pinned")
	ErrInvalidStatus    = errors.New("invalid shot status")
	ErrAttachmentExists = errors.New("attachment already exists for storage key")
)
