package data

import (
	"math"
	"math/rand"

	"heartrisk/internal/features"
)

// GenerateSynthetic draws n in-domain patients. Disease risk rises with age,
// asymptomatic chest pain, exercise angina, ST depression, vessel count and a
// reversible thalassemia defect, and falls with maximum heart rate.
func GenerateSynthetic(n int, seed int64) []Record {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		age := clampInt(rng.NormFloat64()*9+54, 29, 77)
		sex := bernoulli(rng, 0.68)
		cp := float64(pick(rng, []float64{0.47, 0.17, 0.28, 0.08}))
		trestbps := clampInt(rng.NormFloat64()*17+131, 94, 200)
		chol := clampInt(rng.NormFloat64()*50+246, 126, 564)
		fbs := bernoulli(rng, 0.15)
		restecg := float64(pick(rng, []float64{0.48, 0.50, 0.02}))
		thalach := clampInt(205-0.9*age+rng.NormFloat64()*18, 71, 202)
		exang := bernoulli(rng, 0.33)
		oldpeak := math.Round(math.Min(math.Max(rng.ExpFloat64()*1.0, 0), 6.2)*10) / 10
		slope := float64(pick(rng, []float64{0.07, 0.46, 0.47}))
		ca := float64(pick(rng, []float64{0.58, 0.21, 0.12, 0.07, 0.02}))
		thal := float64(pick(rng, []float64{0.01, 0.06, 0.55, 0.38}))

		z := -3.1 +
			0.04*(age-54) +
			0.8*sex +
			0.9*b(cp == 0) - 0.4*b(cp == 2) +
			0.01*(trestbps-131) +
			0.003*(chol-246) +
			-0.03*(thalach-150) +
			1.0*exang +
			0.7*oldpeak +
			0.6*b(slope == 1) +
			0.9*ca +
			1.3*b(thal == 3) +
			rng.NormFloat64()*0.8
		target := 0
		if rng.Float64() < 1/(1+math.Exp(-z)) {
			target = 1
		}

		out = append(out, Record{
			Patient: features.Patient{
				Age: age, Sex: sex, CP: cp, Trestbps: trestbps, Chol: chol, FBS: fbs, RestECG: restecg,
				Thalach: thalach, Exang: exang, Oldpeak: oldpeak, Slope: slope, CA: ca, Thal: thal,
			},
			Target: target,
		})
	}
	return out
}

func clampInt(v, lo, hi float64) float64 {
	return math.Min(math.Max(math.Round(v), lo), hi)
}

func bernoulli(rng *rand.Rand, p float64) float64 {
	if rng.Float64() < p {
		return 1
	}
	return 0
}

func pick(rng *rand.Rand, weights []float64) int {
	u := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if u < acc {
			return i
		}
	}
	return len(weights) - 1
}

func b(cond bool) float64 {
	if cond {
		return 1
	}
	return 0
}
