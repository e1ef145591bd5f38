package cli

import (
	"fmt"
	"math/rand"

	"github.com/tabular-ml/tabular/internal/schema"
	"github.com/tabular-ml/tabular/internal/tensor"
)

// batch is one training batch: shared features plus one label column per
// target.
type batch[B tensor.Backend] struct {
	features *tensor.Tensor[float32, B]
	labels   map[string]*tensor.Tensor[float32, B]
}

// syntheticDataset generates linearly separable targets from random
// features so a single logit layer can fit them.
//
// Each binary target gets a hidden weight vector; the label is 1 when the
// weighted feature sum is positive. Each regression target is a noisy
// linear function of the features.
func syntheticDataset[B tensor.Backend](
	group *schema.ColumnGroup,
	backend B,
	numSamples, batchSize, featureDim int,
	rng *rand.Rand,
) ([]*batch[B], error) {
	binary := group.GetTagged(schema.TagBinaryTarget).Columns()
	regression := group.GetTagged(schema.TagRegressionTarget).Columns()
	if len(binary)+len(regression) == 0 {
		return nil, fmt.Errorf("schema has no target columns")
	}

	hidden := make(map[string][]float32, len(binary)+len(regression))
	for _, name := range append(append([]string{}, binary...), regression...) {
		w := make([]float32, featureDim)
		for i := range w {
			w[i] = float32(rng.NormFloat64())
		}
		hidden[name] = w
	}

	var batches []*batch[B]
	for start := 0; start+batchSize <= numSamples; start += batchSize {
		features := make([]float32, batchSize*featureDim)
		for i := range features {
			features[i] = float32(rng.NormFloat64())
		}

		featureTensor, err := tensor.FromSlice(features, tensor.Shape{batchSize, featureDim}, backend)
		if err != nil {
			return nil, fmt.Errorf("building feature batch: %w", err)
		}

		labels := make(map[string]*tensor.Tensor[float32, B], len(hidden))
		for name, w := range hidden {
			values := make([]float32, batchSize)
			for row := 0; row < batchSize; row++ {
				var sum float32
				for col := 0; col < featureDim; col++ {
					sum += features[row*featureDim+col] * w[col]
				}
				values[row] = sum
			}

			isBinary := false
			for _, b := range binary {
				if b == name {
					isBinary = true
					break
				}
			}
			if isBinary {
				for i, v := range values {
					if v > 0 {
						values[i] = 1
					} else {
						values[i] = 0
					}
				}
			} else {
				for i := range values {
					values[i] += float32(rng.NormFloat64() * 0.1)
				}
			}

			labelTensor, err := tensor.FromSlice(values, tensor.Shape{batchSize, 1}, backend)
			if err != nil {
				return nil, fmt.Errorf("building label batch for %q: %w", name, err)
			}
			labels[name] = labelTensor
		}

		batches = append(batches, &batch[B]{features: featureTensor, labels: labels})
	}

	if len(batches) == 0 {
		return nil, fmt.Errorf("sample count %d is smaller than batch size %d", numSamples, batchSize)
	}
	return batches, nil
}

// defaultSchema is the built-in click/rating schema used when no schema
// file is supplied.
func defaultSchema() *schema.ColumnGroup {
	return schema.NewColumnGroup(
		schema.ColumnSchema{Name: "click", Tags: []schema.Tag{schema.TagBinaryTarget}},
		schema.ColumnSchema{Name: "rating", Tags: []schema.Tag{schema.TagRegressionTarget, schema.TagContinuous}},
	)
}
