package domain

// MoveRequest asks the engine for a move. Board uses the rank notation of
// the blobwar package, Strategy a name such as "alphabeta:4".
type MoveRequest struct {
	Board    string `json:"board" validate:"required"`
	Strategy string `json:"strategy" validate:"required"`
}

type MoveResponse struct {
	Move  string `json:"move"`
	Found bool   `json:"found"`
	// Value is the board value after the move, red minus blue.
	Value int8 `json:"value"`
}

// SlotEvent is one publication of the anytime search as seen by watchers.
type SlotEvent struct {
	Key   string `json:"key"`
	Depth int    `json:"depth"`
	Move  string `json:"move"`
}
