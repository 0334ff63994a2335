package artifact

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"heartrisk/internal/features"
	"heartrisk/internal/models"
)

// FormatVersion is bumped whenever the envelope or a payload layout changes incompatibly.
const FormatVersion = 2

const DefaultThreshold = 0.5

// Meta describes a trained model. It travels inside the artifact.
type Meta struct {
	Kind      string             `json:"kind"`
	Name      string             `json:"name"`
	Features  []string           `json:"features"`
	Threshold float64            `json:"threshold"`
	TrainedAt time.Time          `json:"trained_at"`
	Samples   int                `json:"samples"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Source    string             `json:"source,omitempty"`
}

type envelope struct {
	Format    int
	Kind      string
	Features  []string
	Threshold float64
	TrainedAt time.Time
	Samples   int
	Metrics   map[string]float64
	Payload   []byte
}

func newModel(kind string) (models.Model, bool) {
	switch kind {
	case "dt":
		return &models.DecisionTree{}, true
	case "rf":
		return &models.RandomForest{}, true
	case "bagging":
		return &models.Bagging{}, true
	case "gb":
		return &models.GradientBoosting{}, true
	case "lr":
		return &models.LogisticRegression{}, true
	}
	return nil, false
}

// KindOf returns the artifact kind for a concrete model.
func KindOf(m models.Model) (string, error) {
	switch m.(type) {
	case *models.DecisionTree:
		return "dt", nil
	case *models.RandomForest:
		return "rf", nil
	case *models.Bagging:
		return "bagging", nil
	case *models.GradientBoosting:
		return "gb", nil
	case *models.LogisticRegression:
		return "lr", nil
	}
	return "", fmt.Errorf("artifact: unsupported model %T", m)
}

// Encode writes a trained model and its metadata. Features defaults to the
// current feature order and Threshold to DefaultThreshold.
func Encode(w io.Writer, m models.Model, meta Meta) error {
	if !m.Trained() {
		return fmt.Errorf("artifact: model %s is not trained", m.Name())
	}
	kind, err := KindOf(m)
	if err != nil {
		return err
	}
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(m); err != nil {
		return fmt.Errorf("artifact: encode %s: %w", m.Name(), err)
	}
	env := envelope{
		Format:    FormatVersion,
		Kind:      kind,
		Features:  meta.Features,
		Threshold: meta.Threshold,
		TrainedAt: meta.TrainedAt,
		Samples:   meta.Samples,
		Metrics:   meta.Metrics,
		Payload:   payload.Bytes(),
	}
	if env.Features == nil {
		env.Features = features.Names()
	}
	if env.Threshold == 0 {
		env.Threshold = DefaultThreshold
	}
	if !validThreshold(env.Threshold) {
		return fmt.Errorf("artifact: threshold %g outside (0,1)", env.Threshold)
	}
	if err := m.CheckInputs(len(env.Features)); err != nil {
		return fmt.Errorf("artifact: %s does not match %d features: %w", m.Name(), len(env.Features), err)
	}
	if env.TrainedAt.IsZero() {
		env.TrainedAt = time.Now().UTC()
	}
	return gob.NewEncoder(w).Encode(env)
}

// Save encodes to path, creating parent directories. The file is replaced atomically.
func Save(path string, m models.Model, meta Meta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := Encode(tmp, m, meta); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Decode reads an artifact and checks it against the current feature order.
func Decode(r io.Reader) (*Handle, error) {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, loadErr(ReasonCorrupt, "decode envelope: %w", err)
	}
	if env.Format != FormatVersion {
		return nil, loadErr(ReasonIncompatible, "format %d, want %d", env.Format, FormatVersion)
	}
	if want := features.Names(); !slices.Equal(env.Features, want) {
		return nil, loadErr(ReasonIncompatible, "trained on features %v, want %v", env.Features, want)
	}
	if !validThreshold(env.Threshold) {
		return nil, loadErr(ReasonIncompatible, "threshold %g outside (0,1)", env.Threshold)
	}
	m, ok := newModel(env.Kind)
	if !ok {
		return nil, loadErr(ReasonIncompatible, "unknown model kind %q", env.Kind)
	}
	if err := gob.NewDecoder(bytes.NewReader(env.Payload)).Decode(m); err != nil {
		return nil, loadErr(ReasonCorrupt, "decode %s payload: %w", env.Kind, err)
	}
	if !m.Trained() {
		return nil, loadErr(ReasonCorrupt, "%s payload holds an untrained model", env.Kind)
	}
	if err := m.CheckInputs(features.Size); err != nil {
		return nil, loadErr(ReasonIncompatible, "%s payload: %w", env.Kind, err)
	}
	return &Handle{
		model: m,
		meta: Meta{
			Kind:      env.Kind,
			Name:      m.Name(),
			Features:  env.Features,
			Threshold: env.Threshold,
			TrainedAt: env.TrainedAt,
			Samples:   env.Samples,
			Metrics:   env.Metrics,
		},
	}, nil
}

func validThreshold(t float64) bool { return t > 0 && t < 1 }
