package upstream

// Envelope is the response wrapper the order, shipment, and user services
// share: {message, data, status, timestamp}.
type Envelope[T any] struct {
	Message   string `json:"message"`
	Data      T      `json:"data"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
}
