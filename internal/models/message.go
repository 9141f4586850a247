package models

// Message is the stored form of an ingested webhook message. All timestamp
// fields are opaque strings; ordering and range filters compare them
// lexicographically, which callers keep correct by always sending fixed-width
// ISO-8601 UTC values.
type Message struct {
	MessageID  string  `json:"message_id" db:"message_id"`
	FromMSISDN string  `json:"from" db:"from_msisdn"`
	ToMSISDN   string  `json:"to" db:"to_msisdn"`
	Timestamp  string  `json:"ts" db:"ts"`
	Text       *string `json:"text" db:"text"`
	CreatedAt  string  `json:"-" db:"created_at"`
}

// WebhookPayload is the wire shape accepted on the ingestion endpoint.
// The msisdn fields arrive as "from" and "to".
type WebhookPayload struct {
	MessageID  string  `json:"message_id"`
	FromMSISDN string  `json:"from"`
	ToMSISDN   string  `json:"to"`
	Timestamp  string  `json:"ts"`
	Text       *string `json:"text"`
}

// Message converts a validated payload into its stored form. CreatedAt is
// left empty; the store assigns it at insert time.
func (p *WebhookPayload) Message() *Message {
	return &Message{
		MessageID:  p.MessageID,
		FromMSISDN: p.FromMSISDN,
		ToMSISDN:   p.ToMSISDN,
		Timestamp:  p.Timestamp,
		Text:       p.Text,
	}
}

// InsertOutcome reports how the store resolved an insert.
type InsertOutcome string

const (
	InsertCreated   InsertOutcome = "created"
	InsertDuplicate InsertOutcome = "duplicate"
)

// QueryFilter holds the conjunctive filters and paging window for a listing
// query. Limit is expected to be clamped to [1,100] by the caller.
type QueryFilter struct {
	Limit      int
	Offset     int
	FromMSISDN string
	Since      string
	Contains   string
}

// SenderCount is one entry of the per-sender leaderboard.
type SenderCount struct {
	FromMSISDN string `json:"from"`
	Count      int64  `json:"count"`
}

// Stats is the aggregate summary over the stored corpus. The timestamp
// bounds are nil when no messages exist.
type Stats struct {
	TotalMessages     int64         `json:"total_messages"`
	SendersCount      int64         `json:"senders_count"`
	MessagesPerSender []SenderCount `json:"messages_per_sender"`
	FirstMessageTS    *string       `json:"first_message_ts"`
	LastMessageTS     *string       `json:"last_message_ts"`
}
