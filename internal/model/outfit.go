package model

// Outfit is one persona-owned set of items, one slot per category.
// Optional slots (outer, acc) hold 0 when unset.
type Outfit struct {
	ID       int64  `json:"id" db:"id"`
	Persona  string `json:"persona" db:"persona"`
	OuterID  int64  `json:"outer_id" db:"outer_id"`
	TopID    int64  `json:"top_id" db:"top_id"`
	BottomID int64  `json:"bottom_id" db:"bottom_id"`
	ShoesID  int64  `json:"shoes_id" db:"shoes_id"`
	AccID    int64  `json:"acc_id" db:"acc_id"`
}

// ItemIDs returns the populated item ids of the outfit.
func (o *Outfit) ItemIDs() []int64 {
	ids := make([]int64, 0, 5)
	for _, id := range []int64{o.OuterID, o.TopID, o.BottomID, o.ShoesID, o.AccID} {
		if id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
