package ticket

import "errors"

var (
	ErrNotFound            = errors.New("ticket not found")
	ErrTechnicianNotFound  = errors.New("technician not found")
	ErrTechnicianInactive  = errors.New("technician is inactive")
	ErrAttachmentsDisabled = errors.New("attachments are disabled")
	ErrAttachmentTooLarge  = errors.New("attachment exceeds the size limit")
)
