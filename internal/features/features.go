package features

import (
	"fmt"
	"math"
)

// Size is the number of fields in a feature vector.
const Size = 13

// Field describes one position of the feature vector. Min and Max are inclusive.
type Field struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Min         float64  `json:"min"`
	Max         float64  `json:"max"`
	Integer     bool     `json:"integer"`
	Choices     []string `json:"choices,omitempty"`
}

// The order of this table is the order the classifiers are trained on.
var fields = []Field{
	{Name: "age", Description: "Age (years)", Min: 1, Max: 120, Integer: true},
	{Name: "sex", Description: "Sex", Min: 0, Max: 1, Integer: true, Choices: []string{"Female", "Male"}},
	{Name: "cp", Description: "Chest pain type", Min: 0, Max: 3, Integer: true,
		Choices: []string{"Typical Angina", "Atypical Angina", "Non-anginal", "Asymptomatic"}},
	{Name: "trestbps", Description: "Resting blood pressure (mm Hg)", Min: 80, Max: 200, Integer: true},
	{Name: "chol", Description: "Serum cholesterol (mg/dL)", Min: 100, Max: 600, Integer: true},
	{Name: "fbs", Description: "Fasting blood sugar > 120 mg/dL", Min: 0, Max: 1, Integer: true, Choices: []string{"No", "Yes"}},
	{Name: "restecg", Description: "Resting ECG results", Min: 0, Max: 2, Integer: true},
	{Name: "thalach", Description: "Maximum heart rate achieved", Min: 60, Max: 250, Integer: true},
	{Name: "exang", Description: "Exercise induced angina", Min: 0, Max: 1, Integer: true, Choices: []string{"No", "Yes"}},
	{Name: "oldpeak", Description: "ST depression induced by exercise", Min: 0, Max: 6.2},
	{Name: "slope", Description: "Slope of the peak exercise ST segment", Min: 0, Max: 2, Integer: true},
	{Name: "ca", Description: "Number of major vessels (0-4)", Min: 0, Max: 4, Integer: true},
	{Name: "thal", Description: "Thalassemia type", Min: 0, Max: 3, Integer: true},
}

// Fields returns a copy of the field table in vector order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Names returns the field names in vector order.
func Names() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Contains reports whether v lies in the field's domain.
func (f Field) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if v < f.Min || v > f.Max {
		return false
	}
	if f.Integer && v != math.Trunc(v) {
		return false
	}
	return true
}

func (f Field) domain() string {
	if f.Integer {
		return fmt.Sprintf("integer in [%g, %g]", f.Min, f.Max)
	}
	return fmt.Sprintf("value in [%g, %g]", f.Min, f.Max)
}

// Patient is the named form of a feature vector.
type Patient struct {
	Age      float64 `json:"age"`
	Sex      float64 `json:"sex"`
	CP       float64 `json:"cp"`
	Trestbps float64 `json:"trestbps"`
	Chol     float64 `json:"chol"`
	FBS      float64 `json:"fbs"`
	RestECG  float64 `json:"restecg"`
	Thalach  float64 `json:"thalach"`
	Exang    float64 `json:"exang"`
	Oldpeak  float64 `json:"oldpeak"`
	Slope    float64 `json:"slope"`
	CA       float64 `json:"ca"`
	Thal     float64 `json:"thal"`
}

// Vectorize lays the patient out in training order and returns the vector with its names.
func Vectorize(p Patient) ([]float64, []string) {
	vec := []float64{
		p.Age, p.Sex, p.CP, p.Trestbps, p.Chol, p.FBS, p.RestECG,
		p.Thalach, p.Exang, p.Oldpeak, p.Slope, p.CA, p.Thal,
	}
	return vec, Names()
}

// FromVector is the inverse of Vectorize. Only the length is checked.
func FromVector(v []float64) (Patient, error) {
	if len(v) != Size {
		return Patient{}, &ShapeError{Got: len(v), Want: Size}
	}
	return Patient{
		Age: v[0], Sex: v[1], CP: v[2], Trestbps: v[3], Chol: v[4], FBS: v[5], RestECG: v[6],
		Thalach: v[7], Exang: v[8], Oldpeak: v[9], Slope: v[10], CA: v[11], Thal: v[12],
	}, nil
}
