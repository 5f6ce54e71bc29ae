package dto

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type ProductCreatedEvent struct {
	ProductID int64  `json:"product_id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
}

type PaymentValidatedEvent struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}
