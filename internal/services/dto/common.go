package dto

// MessageResponse is the generic "{message: ...}" acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// BulkResult is one item's outcome in a bulk moderation call. Bulk
// operations never abort the batch: the result slice always matches the
// input id slice in length, and failed entries carry their error text.
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkRequest carries the target ids plus an optional shared reason for
// bulk rejections.
type BulkRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,max=100"`
	Reason string   `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type PaginatedResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
