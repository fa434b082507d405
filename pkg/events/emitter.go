// Package events handles event emission for catalog lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/flavorgraph/basil/pkg/kafka"
	"github.com/flavorgraph/basil/pkg/models"
	"github.com/flavorgraph/basil/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// EventType defines the type of event
type EventType string

const (
	EventTypeDatasetLoaded      EventType = "dataset_loaded"
	EventTypeSimilarityComputed EventType = "similarity_computed"
	EventTypeIngredientMerged   EventType = "ingredient_merged"
)

// DatasetLoadedEvent is emitted after a dataset load completes
type DatasetLoadedEvent struct {
	SchemaVersion string                `json:"schema_version"`
	Summary       models.DatasetSummary `json:"summary"`
}

// SimilarityComputedEvent is emitted after a similarity pass completes
type SimilarityComputedEvent struct {
	SchemaVersion string  `json:"schema_version"`
	RecipeCount   int     `json:"recipe_count"`
	PairCount     int     `json:"pair_count"`
	Threshold     float64 `json:"threshold"`
}

// IngredientMergedEvent is emitted when two ingredient records sharing
// an identity are collapsed during a load
type IngredientMergedEvent struct {
	SchemaVersion string `json:"schema_version"`
	EntityID      string `json:"entity_id"`
	IsCompound    bool   `json:"is_compound"`
}

// Emitter handles event emission. A nil producer disables emission, so
// callers never need to branch on whether Kafka is configured.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitDatasetLoaded emits a dataset_loaded event
func (e *Emitter) EmitDatasetLoaded(ctx context.Context, summary models.DatasetSummary) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitDatasetLoaded")
	defer span.End()

	return e.publish(ctx, EventTypeDatasetLoaded, uuid.NewString(), DatasetLoadedEvent{
		SchemaVersion: SchemaVersion,
		Summary:       summary,
	})
}

// EmitSimilarityComputed emits a similarity_computed event
func (e *Emitter) EmitSimilarityComputed(ctx context.Context, result models.ComputeSimilarityResponse) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitSimilarityComputed")
	defer span.End()

	return e.publish(ctx, EventTypeSimilarityComputed, uuid.NewString(), SimilarityComputedEvent{
		SchemaVersion: SchemaVersion,
		RecipeCount:   result.RecipeCount,
		PairCount:     result.PairCount,
		Threshold:     result.Threshold,
	})
}

// EmitIngredientMerged emits an ingredient_merged event
func (e *Emitter) EmitIngredientMerged(ctx context.Context, entityID string, isCompound bool) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitIngredientMerged")
	defer span.End()

	return e.publish(ctx, EventTypeIngredientMerged, entityID, IngredientMergedEvent{
		SchemaVersion: SchemaVersion,
		EntityID:      entityID,
		IsCompound:    isCompound,
	})
}

func (e *Emitter) publish(ctx context.Context, eventType EventType, key string, payload any) error {
	if e.producer == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := &kafka.CatalogEvent{
		EventType: string(eventType),
		Key:       key,
		Data:      data,
	}

	if err := e.producer.PublishCatalogEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": string(eventType),
		}).Error("Failed to emit catalog event")
		return err
	}

	return nil
}
