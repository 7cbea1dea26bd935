// Package model implements the RMI's two model primitives (a closed-form
// linear regressor and a small feed-forward network) and the staged engine
// built on top of them.
package model

import "rmindex/pkg/common"

// Model is the polymorphic two-variant union {Linear, Neural} the RMI
// hierarchy is built from. Error bounds are not part of this interface —
// they are tracked per-stage by the engine (spec §3, Stage).
type Model interface {
	Train(records []common.Record)
	Predict(key common.KeyType) float64
	SizeInBytes() int
}
