package feed

import (
	"encoding/json"
	"strconv"

	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------
// Feed Message Parsing
// -----------------------------------------------------------------------------

// combinedFrame is the multiplexed envelope the feed wraps stream payloads
// in. Payloads may also arrive bare, without the envelope.
type combinedFrame struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// tradeEvent is the raw trade payload. Price and quantity are transmitted as
// strings.
type tradeEvent struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Price     string `json:"p"`
	Qty       string `json:"q"`
	TradeTime int64  `json:"T"`
}

// -----------------------------------------------------------------------------

// ParseTradeMessage extracts a tick from one feed frame. Returns false for
// anything that is not a well-formed trade event; such frames are dropped by
// the caller without error.
func ParseTradeMessage(message []byte) (models.MTick, bool) {
	payload := message

	var frame combinedFrame
	if err := json.Unmarshal(message, &frame); err == nil && len(frame.Data) > 0 {
		payload = frame.Data
	}

	var event tradeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return models.MTick{}, false
	}
	if event.EventType != "trade" || event.Symbol == "" {
		return models.MTick{}, false
	}

	price, err := strconv.ParseFloat(event.Price, 64)
	if err != nil {
		return models.MTick{}, false
	}
	qty, err := strconv.ParseFloat(event.Qty, 64)
	if err != nil {
		return models.MTick{}, false
	}

	return models.MTick{
		Symbol:    event.Symbol,
		Price:     price,
		Qty:       qty,
		Timestamp: event.TradeTime,
	}, true
}
