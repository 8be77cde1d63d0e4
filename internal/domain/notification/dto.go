package notification

type CreateNotificationRequest struct {
	RecipientID string                 `json:"recipient_id"`
	Type        Type                   `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
}
