package evaluate

import (
	"math"
	"math/rand"
)

// Split holds a train/test partition of a labelled set.
type Split struct {
	XTrain [][]float64
	YTrain []int
	XTest  [][]float64
	YTest  []int
}

// StratifiedSplit keeps trainFrac of each class for training and shuffles
// both partitions. The same seed gives the same split.
func StratifiedSplit(X [][]float64, y []int, trainFrac float64, seed int64) Split {
	rng := rand.New(rand.NewSource(seed))
	var posIdx, negIdx []int
	for i := range y {
		if y[i] == 1 {
			posIdx = append(posIdx, i)
		} else {
			negIdx = append(negIdx, i)
		}
	}

	var trainIdx, testIdx []int
	for _, group := range [][]int{posIdx, negIdx} {
		perm := rng.Perm(len(group))
		cut := int(trainFrac * float64(len(group)))
		for i, p := range perm {
			if i < cut {
				trainIdx = append(trainIdx, group[p])
			} else {
				testIdx = append(testIdx, group[p])
			}
		}
	}
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })

	var s Split
	s.XTrain, s.YTrain = gather(X, y, trainIdx)
	s.XTest, s.YTest = gather(X, y, testIdx)
	return s
}

func gather(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	outX := make([][]float64, len(idx))
	outY := make([]int, len(idx))
	for i, j := range idx {
		outX[i] = X[j]
		outY[i] = y[j]
	}
	return outX, outY
}

// Tail returns the last frac of a training set, at least minRows rows and at
// most all of it. The trainer tunes thresholds on it.
func Tail(X [][]float64, y []int, frac float64, minRows int) ([][]float64, []int) {
	n := int(frac * float64(len(X)))
	if n < minRows {
		n = minRows
	}
	if n > len(X) {
		n = len(X)
	}
	return X[len(X)-n:], y[len(y)-n:]
}

// CurveSizes returns increasing training-set sizes for a learning curve,
// ending at total. Sizes are spaced geometrically when useLog is set.
func CurveSizes(total, points, min int, useLog bool) []int {
	if total <= 0 {
		return nil
	}
	if points <= 1 {
		points = 2
	}
	if min < 10 {
		min = 10
	}
	if min > total {
		min = int(math.Max(1, float64(total)/2))
	}
	sizes := make([]int, 0, points)
	if useLog {
		ratio := math.Pow(float64(total)/float64(min), 1.0/float64(points-1))
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)*math.Pow(ratio, float64(i)))))
		}
	} else {
		step := float64(total-min) / float64(points-1)
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)+float64(i)*step)))
		}
	}

	cleaned := make([]int, 0, len(sizes))
	last := 0
	for _, s := range sizes {
		if s <= last {
			s = last + 1
		}
		if s > total {
			s = total
		}
		if s != last {
			cleaned = append(cleaned, s)
			last = s
		}
	}
	cleaned[len(cleaned)-1] = total
	return cleaned
}
