package interfaces

import "price-streamer/src/models"

// -----------------------------------------------------------------------------
// ICandleSink receives completed candles for delivery to external listeners.
// -----------------------------------------------------------------------------

type ICandleSink interface {

	// -----------------------------------------------------------------------------

	// PublishCandle pushes one completed candle to all connected listeners.
	// Delivery failures are the sink's problem; the caller never sees them.
	PublishCandle(candle models.MCandle)
}
