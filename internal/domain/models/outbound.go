package models

// Notification is a plain-text message pushed to an operator.
type Notification struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
