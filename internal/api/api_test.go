package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"heartrisk/internal/artifact"
	"heartrisk/internal/data"
	"heartrisk/internal/inference"
	"heartrisk/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, key string) http.Handler {
	t.Helper()
	X, y := data.XY(data.GenerateSynthetic(300, 5))
	m := models.New("lr", models.Params{})
	require.NoError(t, m.Fit(X, y))

	path := filepath.Join(t.TempDir(), "heart_model.gob")
	require.NoError(t, artifact.Save(path, m, artifact.Meta{Samples: len(X)}))
	h, err := artifact.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	inv, err := inference.New(h)
	require.NoError(t, err)

	return NewServer(Config{APIKey: key, Mode: gin.TestMode}, inv, zap.NewNop()).Handler()
}

func patient() map[string]any {
	return map[string]any{
		"age": 63, "sex": 1, "cp": 3, "trestbps": 145, "chol": 233, "fbs": 1, "restecg": 0,
		"thalach": 150, "exang": 0, "oldpeak": 2.3, "slope": 0, "ca": 0, "thal": 1,
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestPredict(t *testing.T) {
	h := newTestServer(t, "")

	w := do(t, h, http.MethodPost, "/predict", patient())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp predictResponse
	decode(t, w, &resp)
	assert.Contains(t, []int{0, 1}, resp.Label)
	assert.Equal(t, "LogisticRegression", resp.Model)
	assert.GreaterOrEqual(t, resp.Probability, 0.0)
	assert.LessOrEqual(t, resp.Probability, 1.0)
	if resp.Label == 1 {
		assert.Equal(t, "high risk", resp.Verdict)
		assert.Equal(t, "High Risk of Heart Disease!", resp.Message)
	} else {
		assert.Equal(t, "no disease detected", resp.Verdict)
		assert.Equal(t, "No Heart Disease Detected!", resp.Message)
	}
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	again := do(t, h, http.MethodPost, "/predict", patient())
	assert.Equal(t, w.Body.String(), again.Body.String())
}

func TestPredictMissingField(t *testing.T) {
	h := newTestServer(t, "")
	body := patient()
	delete(body, "thal")

	w := do(t, h, http.MethodPost, "/predict", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "invalid request", resp.Error)
	assert.Equal(t, []string{"thal is required"}, resp.Details)

	w = do(t, h, http.MethodPost, "/predict", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictZeroIsNotMissing(t *testing.T) {
	h := newTestServer(t, "")
	body := patient()
	body["sex"] = 0
	body["oldpeak"] = 0
	w := do(t, h, http.MethodPost, "/predict", body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPredictOutOfDomain(t *testing.T) {
	h := newTestServer(t, "")
	body := patient()
	body["chol"] = 50
	body["sex"] = 3

	w := do(t, h, http.MethodPost, "/predict", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "invalid features", resp.Error)
	assert.Len(t, resp.Details, 2)
}

func TestPredictVector(t *testing.T) {
	h := newTestServer(t, "")

	vec := []float64{63, 1, 3, 145, 233, 1, 0, 150, 0, 2.3, 0, 0, 1}
	w := do(t, h, http.MethodPost, "/predict/vector", map[string]any{"features": vec})
	require.Equal(t, http.StatusOK, w.Code)
	byVector := w.Body.String()

	w = do(t, h, http.MethodPost, "/predict", patient())
	assert.JSONEq(t, byVector, w.Body.String())

	w = do(t, h, http.MethodPost, "/predict/vector", map[string]any{"features": vec[:12]})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPost, "/predict/vector", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatch(t *testing.T) {
	h := newTestServer(t, "")

	w := do(t, h, http.MethodPost, "/batch", []map[string]any{patient(), patient()})
	require.Equal(t, http.StatusOK, w.Code)
	var out []predictResponse
	decode(t, w, &out)
	require.Len(t, out, 2)
	assert.Equal(t, out[0], out[1])

	bad := patient()
	bad["age"] = 150
	w = do(t, h, http.MethodPost, "/batch", []map[string]any{patient(), bad})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp struct {
		Index int `json:"index"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Index)

	w = do(t, h, http.MethodPost, "/batch", []map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchMissingFieldNamesRow(t *testing.T) {
	h := newTestServer(t, "")
	incomplete := patient()
	delete(incomplete, "thal")
	delete(incomplete, "restecg")

	w := do(t, h, http.MethodPost, "/batch", []map[string]any{patient(), incomplete})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error   string   `json:"error"`
		Index   int      `json:"index"`
		Details []string `json:"details"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "invalid request", resp.Error)
	assert.Equal(t, 1, resp.Index)
	assert.ElementsMatch(t, []string{"[1] restecg is required", "[1] thal is required"}, resp.Details)
}

func TestAPIKey(t *testing.T) {
	h := newTestServer(t, "secret")

	w := do(t, h, http.MethodPost, "/predict", patient())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/predict", patient(), apiKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/predict", patient(), apiKeyHeader, "secret")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetadataRoutes(t *testing.T) {
	h := newTestServer(t, "")

	w := do(t, h, http.MethodGet, "/health", nil, requestIDHeader, "abc-123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","model":"LogisticRegression"}`, w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	w = do(t, h, http.MethodGet, "/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var schema struct {
		Features []struct {
			Name string `json:"name"`
		} `json:"features"`
	}
	decode(t, w, &schema)
	require.Len(t, schema.Features, 13)
	assert.Equal(t, "age", schema.Features[0].Name)

	w = do(t, h, http.MethodGet, "/model", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var meta artifact.Meta
	decode(t, w, &meta)
	assert.Equal(t, "lr", meta.Kind)
	assert.Equal(t, 0.5, meta.Threshold)
	assert.Equal(t, 300, meta.Samples)
}
