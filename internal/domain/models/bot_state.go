package models

// BotState is the durable part of the bot's configuration: whether initial
// setup has completed, the reply language and the last processed update id.
// LastUpdateID is the only durable cursor for already-seen updates; nil means
// cold start (fetch everything currently buffered upstream).
type BotState struct {
	IsConfigured bool   `json:"is_configured"`
	Language     string `json:"language"`
	LastUpdateID *int64 `json:"last_updated"`
}

func DefaultBotState() BotState {
	return BotState{
		IsConfigured: false,
		Language:     "en",
		LastUpdateID: nil,
	}
}
