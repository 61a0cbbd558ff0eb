package domain

// WebhookMessage is the incoming-webhook body accepted by Slack-compatible endpoints
type WebhookMessage struct {
	Text string `json:"text"`
}
