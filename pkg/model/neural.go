package model

import (
	"math"
	"math/rand"

	"rmindex/pkg/common"
)

const (
	trainEpochs       = 100
	trainBatchSize    = 128
	trainLearningRate = 0.05
	neuralSeed        = 42
)

// layer holds one affine map (In -> Out), weights flattened row-major:
// W[i*Out+j] is the weight from input i to output j.
type layer struct {
	In, Out int
	W       []float64
	B       []float64
}

// NeuralModel is a small feed-forward network trained by mini-batch gradient
// descent on normalized inputs (spec §4.2). Layers 0..L-2 are rectified;
// the final layer is affine. Used only for the root stage of a hybrid RMI.
type NeuralModel struct {
	HiddenSize int
	NumLayers  int
	Layers     []layer

	XMin, XMax, XRange, YMax float64
	UseLog                   bool
}

func NewNeuralModel(hiddenSize, numLayers int) *NeuralModel {
	if numLayers < 1 {
		numLayers = 1
	}
	if hiddenSize < 1 {
		hiddenSize = 1
	}
	nm := &NeuralModel{HiddenSize: hiddenSize, NumLayers: numLayers}
	nm.Layers = make([]layer, numLayers)
	for l := 0; l < numLayers; l++ {
		in := hiddenSize
		if l == 0 {
			in = 1
		}
		out := hiddenSize
		if l == numLayers-1 {
			out = 1
		}
		nm.Layers[l] = layer{In: in, Out: out, W: make([]float64, in*out), B: make([]float64, out)}
	}
	return nm
}

func (nm *NeuralModel) Train(records []common.Record) {
	n := len(records)
	if n == 0 {
		return
	}

	keyMin := records[0].Key
	keyMax := records[n-1].Key
	if keyMax < keyMin {
		keyMin, keyMax = keyMax, keyMin
	}

	useLog := keyMax/math.Max(keyMin, 1) > 100
	if useLog && keyMin+1 <= 0 {
		useLog = false // log transform undefined for this range; fall back to raw keys
	}
	nm.UseLog = useLog

	transform := func(k float64) float64 {
		if useLog {
			return math.Log(k + 1)
		}
		return k
	}

	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		x := transform(r.Key)
		if x < xMin {
			xMin = x
		}
		if x > xMax {
			xMax = x
		}
	}
	xRange := math.Max(xMax-xMin, 1)
	yMax := math.Max(float64(n-1), 1)

	nm.XMin, nm.XMax, nm.XRange, nm.YMax = xMin, xMax, xRange, yMax

	rng := rand.New(rand.NewSource(neuralSeed))
	weightStd := math.Sqrt(2.0 / float64(nm.HiddenSize))
	for l := range nm.Layers {
		for i := range nm.Layers[l].W {
			nm.Layers[l].W[i] = rng.NormFloat64() * weightStd
		}
		// biases already zero-valued
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, r := range records {
		xs[i] = (transform(r.Key) - xMin) / xRange
		ys[i] = float64(r.Position) / yMax
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	numLayers := nm.NumLayers
	weightGrad := make([][]float64, numLayers)
	biasGrad := make([][]float64, numLayers)
	for l := 0; l < numLayers; l++ {
		weightGrad[l] = make([]float64, len(nm.Layers[l].W))
		biasGrad[l] = make([]float64, len(nm.Layers[l].B))
	}

	activations := make([][]float64, numLayers+1)
	preacts := make([][]float64, numLayers)

	for epoch := 0; epoch < trainEpochs; epoch++ {
		rng.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })

		for batchStart := 0; batchStart < n; batchStart += trainBatchSize {
			batchEnd := batchStart + trainBatchSize
			if batchEnd > n {
				batchEnd = n
			}
			batchSize := batchEnd - batchStart

			for l := 0; l < numLayers; l++ {
				for i := range weightGrad[l] {
					weightGrad[l][i] = 0
				}
				for i := range biasGrad[l] {
					biasGrad[l][i] = 0
				}
			}

			for b := batchStart; b < batchEnd; b++ {
				idx := indices[b]
				x := xs[idx]
				yTrue := ys[idx]

				activations[0] = []float64{x}
				for l := 0; l < numLayers; l++ {
					ly := nm.Layers[l]
					z := make([]float64, ly.Out)
					for j := 0; j < ly.Out; j++ {
						sum := ly.B[j]
						for i := 0; i < ly.In; i++ {
							sum += activations[l][i] * ly.W[i*ly.Out+j]
						}
						z[j] = sum
					}
					preacts[l] = z
					a := make([]float64, ly.Out)
					if l < numLayers-1 {
						for j, v := range z {
							a[j] = math.Max(0, v)
						}
					} else {
						copy(a, z)
					}
					activations[l+1] = a
				}

				yPred := activations[numLayers][0]
				errTerm := yPred - yTrue

				deltaA := []float64{2 * errTerm} // dE/da[L], size 1
				for l := numLayers - 1; l >= 0; l-- {
					ly := nm.Layers[l]
					dz := make([]float64, ly.Out)
					if l == numLayers-1 {
						copy(dz, deltaA)
					} else {
						for j := 0; j < ly.Out; j++ {
							if preacts[l][j] > 0 {
								dz[j] = deltaA[j]
							}
						}
					}

					for j := 0; j < ly.Out; j++ {
						biasGrad[l][j] += dz[j]
						for i := 0; i < ly.In; i++ {
							weightGrad[l][i*ly.Out+j] += activations[l][i] * dz[j]
						}
					}

					if l > 0 {
						prevDelta := make([]float64, ly.In)
						for i := 0; i < ly.In; i++ {
							sum := 0.0
							for j := 0; j < ly.Out; j++ {
								sum += dz[j] * ly.W[i*ly.Out+j]
							}
							prevDelta[i] = sum
						}
						deltaA = prevDelta
					}
				}
			}

			for l := 0; l < numLayers; l++ {
				ly := &nm.Layers[l]
				for i := range ly.W {
					ly.W[i] -= trainLearningRate * weightGrad[l][i] / float64(batchSize)
				}
				for i := range ly.B {
					ly.B[i] -= trainLearningRate * biasGrad[l][i] / float64(batchSize)
				}
			}
		}
	}
}

func (nm *NeuralModel) Predict(key common.KeyType) float64 {
	x := key
	if nm.UseLog {
		x = math.Log(key + 1)
	}
	xRange := nm.XRange
	if xRange == 0 {
		xRange = 1
	}
	x = (x - nm.XMin) / xRange

	activation := []float64{x}
	for l, ly := range nm.Layers {
		next := make([]float64, ly.Out)
		for j := 0; j < ly.Out; j++ {
			sum := ly.B[j]
			for i := 0; i < ly.In; i++ {
				sum += activation[i] * ly.W[i*ly.Out+j]
			}
			if l < len(nm.Layers)-1 {
				sum = math.Max(0, sum)
			}
			next[j] = sum
		}
		activation = next
	}

	yMax := nm.YMax
	if yMax == 0 {
		yMax = 1
	}
	return activation[0] * yMax
}

func (nm *NeuralModel) SizeInBytes() int {
	total := 4 * 8 // XMin, XMax, XRange, YMax
	for _, ly := range nm.Layers {
		total += len(ly.W) * 8
		total += len(ly.B) * 8
	}
	return total
}
