package domain

// TopicLedgerChanged is published on the event bus after any mutation of
// products, sales or expenses. Handlers take no arguments.
const TopicLedgerChanged = "ledger:changed"
