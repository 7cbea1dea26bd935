package common

import "fmt"

// KeyType is the scalar, totally-ordered key type the index operates on.
type KeyType = float64

// Record is the basic unit handed to a bulk build: a key paired with its
// position. Position is overwritten with the final ascending-sort index
// once the engine sorts the input (spec §6.2).
type Record struct {
	Key      KeyType
	Position int
}

func (r Record) String() string {
	return fmt.Sprintf("Record{Key: %g, Position: %d}", r.Key, r.Position)
}
