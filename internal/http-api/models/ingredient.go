package models

// Ingredient is immutable reference data, loaded in bulk by
// cmd/ingredient-import. Identity is the (name, measurement_unit) pair.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string `json:"name" gorm:"size:256;not null;uniqueIndex:idx_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:256;not null;uniqueIndex:idx_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
