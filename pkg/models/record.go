package models

// ProductRecord is the validated input record seeding a run.
type ProductRecord struct {
	Name           string   `json:"name"            validate:"required,min=2"`
	Concentration  string   `json:"concentration"   validate:"required"`
	SkinTypes      []string `json:"skin_types"      validate:"required,min=1,dive,required"`
	KeyIngredients []string `json:"key_ingredients" validate:"required,min=1,dive,required"`
	Benefits       []string `json:"benefits"        validate:"required,min=1,dive,required"`
	HowToUse       string   `json:"how_to_use"      validate:"required"`
	SideEffects    string   `json:"side_effects"`
	Price          string   `json:"price"           validate:"required"`
}

// HasIngredient reports whether the record lists the given key ingredient.
func (r *ProductRecord) HasIngredient(name string) bool {
	for _, ingredient := range r.KeyIngredients {
		if ingredient == name {
			return true
		}
	}

	return false
}
