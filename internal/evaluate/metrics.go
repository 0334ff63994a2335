package evaluate

import (
	"math"
	"sort"
)

// Metrics summarises a classifier on a labelled set at one threshold.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	ROCAUC    float64 `json:"roc_auc"`
	PRAUC     float64 `json:"pr_auc"`
	Threshold float64 `json:"threshold"`
}

// Map flattens the metrics for storage in artifact metadata.
func (m Metrics) Map() map[string]float64 {
	return map[string]float64{
		"accuracy":  m.Accuracy,
		"precision": m.Precision,
		"recall":    m.Recall,
		"f1":        m.F1,
		"roc_auc":   m.ROCAUC,
		"pr_auc":    m.PRAUC,
	}
}

func Evaluate(y []int, ps []float64, thr float64) Metrics {
	prec, rec, f1 := PRF1(y, ps, thr)
	return Metrics{
		Accuracy:  Accuracy(y, ToLabels(ps, thr)),
		Precision: prec,
		Recall:    rec,
		F1:        f1,
		ROCAUC:    ROCAUC(y, ps),
		PRAUC:     PRAUC(y, ps),
		Threshold: thr,
	}
}

func Accuracy(y, p []int) float64 {
	if len(y) == 0 {
		return 0
	}
	c := 0
	for i := range y {
		if y[i] == p[i] {
			c++
		}
	}
	return float64(c) / float64(len(y))
}

// ToLabels applies thr with the same rule as inference: p >= thr is positive.
func ToLabels(ps []float64, thr float64) []int {
	out := make([]int, len(ps))
	for i := range ps {
		if ps[i] >= thr {
			out[i] = 1
		}
	}
	return out
}

func Confusion(y []int, ps []float64, thr float64) (tp, fp, tn, fn int) {
	for i := range y {
		pred := ps[i] >= thr
		switch {
		case pred && y[i] == 1:
			tp++
		case pred:
			fp++
		case y[i] == 0:
			tn++
		default:
			fn++
		}
	}
	return
}

func PRF1(y []int, ps []float64, thr float64) (precision, recall, f1 float64) {
	tp, fp, _, fn := Confusion(y, ps, thr)
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return
}

type scored struct {
	s float64
	y int
}

func byScore(y []int, ps []float64) []scored {
	pairs := make([]scored, len(y))
	for i := range y {
		pairs[i] = scored{ps[i], y[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].s > pairs[j].s })
	return pairs
}

// ROCAUC integrates the ROC curve with the trapezoid rule, treating tied
// scores as one step. Returns 0 when only one class is present.
func ROCAUC(y []int, ps []float64) float64 {
	pairs := byScore(y, ps)
	var pos, neg int
	for _, p := range pairs {
		if p.y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0
	}
	tp, fp := 0, 0
	prevS := math.Inf(1)
	var auc, prevTPR, prevFPR float64
	for _, p := range pairs {
		if p.s != prevS {
			tpr := float64(tp) / float64(pos)
			fpr := float64(fp) / float64(neg)
			auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
			prevTPR, prevFPR = tpr, fpr
			prevS = p.s
		}
		if p.y == 1 {
			tp++
		} else {
			fp++
		}
	}
	auc += (1 - prevFPR) * (1 + prevTPR) / 2
	return auc
}

// PRAUC is the step-wise area under the precision-recall curve.
func PRAUC(y []int, ps []float64) float64 {
	pairs := byScore(y, ps)
	var tp, fp, fn int
	for _, p := range pairs {
		if p.y == 1 {
			fn++
		}
	}
	var prevRec, auc float64
	for _, p := range pairs {
		if p.y == 1 {
			tp++
			fn--
		} else {
			fp++
		}
		var prec, rec float64
		if tp+fp > 0 {
			prec = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			rec = float64(tp) / float64(tp+fn)
		}
		auc += (rec - prevRec) * prec
		prevRec = rec
	}
	return auc
}
