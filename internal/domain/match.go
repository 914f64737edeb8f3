package domain

import "time"

// MatchRecord is one archived game.
type MatchRecord struct {
	ID         string    `json:"id" bson:"_id"`
	Red        string    `json:"red" bson:"red"`
	Blue       string    `json:"blue" bson:"blue"`
	Start      string    `json:"start" bson:"start"`
	Moves      []string  `json:"moves" bson:"moves"`
	Final      string    `json:"final" bson:"final"`
	Value      int8      `json:"value" bson:"value"`
	Outcome    int       `json:"outcome" bson:"outcome"`
	Forfeit    bool      `json:"forfeit,omitempty" bson:"forfeit,omitempty"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
}

// MatchStats summarises a series of games between two strategies.
type MatchStats struct {
	Red      string  `json:"red"`
	Blue     string  `json:"blue"`
	Games    int     `json:"games"`
	RedWins  int     `json:"red_wins"`
	BlueWins int     `json:"blue_wins"`
	Draws    int     `json:"draws"`
	RedRatio float64 `json:"red_ratio"`
}
