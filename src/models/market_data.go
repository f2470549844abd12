package models

// -----------------------------------------------------------------------------
// Market Data Value Types
// -----------------------------------------------------------------------------

// MTick represents a single trade event received from the upstream feed.
type MTick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Qty       float64 `json:"qty"`
	Timestamp int64   `json:"timestamp"` // epoch ms
}

// -----------------------------------------------------------------------------

// MCandle is a completed OHLC bar for one 1s bucket of one symbol.
// Timestamp is the bucket start, floored to the bucket width.
type MCandle struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"timestamp"` // bucket start, epoch ms
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}
