package ingredient

import (
	"time"

	"github.com/flavorgraph/basil/pkg/database"
	"github.com/flavorgraph/basil/pkg/models"
)

// dao is the scan target for ingredient rows; synonyms and constituents
// live in JSONB columns.
type dao struct {
	EntityID     string                   `db:"entity_id"`
	OriginalName string                   `db:"original_name"`
	AliasedName  string                   `db:"aliased_name"`
	Category     string                   `db:"category"`
	Synonyms     database.JSONB[[]string] `db:"synonyms"`
	Constituents database.JSONB[[]string] `db:"constituents"`
	IsCompound   bool                     `db:"is_compound"`
	Fingerprint  string                   `db:"fingerprint"`
	CreatedAt    time.Time                `db:"created_at"`
	UpdatedAt    time.Time                `db:"updated_at"`
	DeletedAt    *time.Time               `db:"deleted_at"`
}

func (d dao) toRow() models.IngredientRow {
	return models.IngredientRow{
		EntityID:     d.EntityID,
		OriginalName: d.OriginalName,
		AliasedName:  d.AliasedName,
		Category:     d.Category,
		Synonyms:     orEmpty(d.Synonyms.GetValue()),
		Constituents: orEmpty(d.Constituents.GetValue()),
		IsCompound:   d.IsCompound,
		Fingerprint:  d.Fingerprint,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		DeletedAt:    d.DeletedAt,
	}
}

func toRows(daos []dao) []models.IngredientRow {
	rows := make([]models.IngredientRow, len(daos))
	for i, d := range daos {
		rows[i] = d.toRow()
	}
	return rows
}
