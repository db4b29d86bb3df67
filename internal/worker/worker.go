package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"autovid/internal/config"
	"autovid/internal/logger"
	"autovid/internal/store"
)

// Event is one storefront beacon relayed over Kafka. Shops with heavy
// traffic publish here instead of hitting the HTTP beacon routes.
type Event struct {
	Kind       string    `json:"kind"`
	Shop       string    `json:"shop"`
	ProductID  int64     `json:"product_id"`
	VideoURL   string    `json:"video_url"`
	PageType   string    `json:"page_type"`
	PageHandle string    `json:"page_handle"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventPageView  = "page_view"
	EventVideoPlay = "video_play"
)

type Worker struct {
	config     *config.Config
	logger     *logger.Logger
	reader     *kafka.Reader
	activities *store.ActivityStore
}

func New(cfg *config.Config, activities *store.ActivityStore, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "autovid-worker",
		Topic:          "storefront-activity",
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:     cfg,
		logger:     logger,
		reader:     reader,
		activities: activities,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for storefront activity...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.Process(event); err != nil {
			w.logger.Error("Failed to process event: %v", err)
			continue
		}

		w.logger.Debug("Event processed successfully")
	}
}

// Process applies one event to the activity log. Unknown kinds are
// dropped with a warning so a bad publisher cannot wedge the consumer.
func (w *Worker) Process(event Event) error {
	switch event.Kind {
	case EventPageView:
		_, err := w.activities.RecordPageView(event.Shop, event.ProductID, event.PageType, event.PageHandle)
		return err
	case EventVideoPlay:
		_, err := w.activities.RecordPlay(event.Shop, event.ProductID, event.VideoURL)
		return err
	default:
		w.logger.Warn("Dropping event with unknown kind %q", event.Kind)
		return nil
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
