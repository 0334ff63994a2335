package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"heartrisk/internal/features"
	"heartrisk/internal/inference"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// patientRequest mirrors features.Patient with every field required. Pointers
// tell a missing field apart from an explicit zero.
type patientRequest struct {
	Age      *float64 `json:"age" binding:"required"`
	Sex      *float64 `json:"sex" binding:"required"`
	CP       *float64 `json:"cp" binding:"required"`
	Trestbps *float64 `json:"trestbps" binding:"required"`
	Chol     *float64 `json:"chol" binding:"required"`
	FBS      *float64 `json:"fbs" binding:"required"`
	RestECG  *float64 `json:"restecg" binding:"required"`
	Thalach  *float64 `json:"thalach" binding:"required"`
	Exang    *float64 `json:"exang" binding:"required"`
	Oldpeak  *float64 `json:"oldpeak" binding:"required"`
	Slope    *float64 `json:"slope" binding:"required"`
	CA       *float64 `json:"ca" binding:"required"`
	Thal     *float64 `json:"thal" binding:"required"`
}

func (r patientRequest) vector() []float64 {
	v, _ := features.Vectorize(features.Patient{
		Age: *r.Age, Sex: *r.Sex, CP: *r.CP, Trestbps: *r.Trestbps, Chol: *r.Chol,
		FBS: *r.FBS, RestECG: *r.RestECG, Thalach: *r.Thalach, Exang: *r.Exang,
		Oldpeak: *r.Oldpeak, Slope: *r.Slope, CA: *r.CA, Thal: *r.Thal,
	})
	return v
}

type vectorRequest struct {
	Features []float64 `json:"features" binding:"required"`
}

type predictResponse struct {
	Label       int     `json:"label"`
	Verdict     string  `json:"verdict"`
	Message     string  `json:"message"`
	Probability float64 `json:"probability"`
	Model       string  `json:"model"`
}

func (s *Server) respond(r inference.Result) predictResponse {
	return predictResponse{
		Label:       int(r.Label),
		Verdict:     r.Label.Verdict(),
		Message:     r.Label.Message(),
		Probability: r.Probability,
		Model:       s.inv.Handle().Name(),
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.inv.Handle().Name()})
}

func (s *Server) schema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"features": features.Fields()})
}

func (s *Server) model(c *gin.Context) {
	c.JSON(http.StatusOK, s.inv.Handle().Meta())
}

func (s *Server) predict(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.score(c, req.vector())
}

func (s *Server) predictVector(c *gin.Context) {
	var req vectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	s.score(c, req.Features)
}

func (s *Server) score(c *gin.Context, v []float64) {
	res, err := s.inv.Score(v)
	if err != nil {
		s.invalidFeatures(c, err, -1)
		return
	}
	requestLogger(c, s.log).Debug("prediction",
		zap.Int("label", int(res.Label)),
		zap.Float64("probability", res.Probability),
	)
	c.JSON(http.StatusOK, s.respond(res))
}

func (s *Server) batch(c *gin.Context) {
	var reqs []patientRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		var sve binding.SliceValidationError
		if errors.As(err, &sve) {
			s.badBatch(c, err, reqs)
			return
		}
		s.badRequest(c, err)
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": []string{"batch is empty"}})
		return
	}
	vs := make([][]float64, len(reqs))
	for i, r := range reqs {
		vs[i] = r.vector()
	}

	results, err := s.inv.PredictBatch(vs)
	if err != nil {
		var be *inference.BatchError
		if errors.As(err, &be) {
			s.invalidFeatures(c, be.Err, be.Index)
			return
		}
		s.invalidFeatures(c, err, -1)
		return
	}
	out := make([]predictResponse, len(results))
	for i, r := range results {
		out[i] = s.respond(r)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": bindingDetails(err)})
}

// invalidFeatures answers 422 for shape errors. index is the batch row, or -1.
func (s *Server) invalidFeatures(c *gin.Context, err error, index int) {
	_ = c.Error(err)
	var se *features.ShapeError
	if !errors.As(err, &se) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	body := gin.H{"error": "invalid features", "details": se.Details()}
	if index >= 0 {
		body["index"] = index
	}
	c.JSON(http.StatusUnprocessableEntity, body)
}

// badBatch revalidates each decoded row so every detail names its row.
func (s *Server) badBatch(c *gin.Context, err error, reqs []patientRequest) {
	_ = c.Error(err)
	first := -1
	var details []string
	for i, r := range reqs {
		rowErr := binding.Validator.ValidateStruct(r)
		if rowErr == nil {
			continue
		}
		if first < 0 {
			first = i
		}
		for _, d := range bindingDetails(rowErr) {
			details = append(details, fmt.Sprintf("[%d] %s", i, d))
		}
	}
	body := gin.H{"error": "invalid request", "details": details}
	if first >= 0 {
		body["index"] = first
	}
	c.JSON(http.StatusBadRequest, body)
}

// bindingDetails turns validator errors into "<field> is required" lines.
func bindingDetails(err error) []string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []string{err.Error()}
	}
	out := make([]string, len(ves))
	for i, fe := range ves {
		out[i] = fmt.Sprintf("%s is %s", jsonName(fe.Field()), fe.Tag())
	}
	return out
}

// jsonName maps a request struct field to its JSON key.
func jsonName(field string) string {
	if f, _, ok := features.Lookup(field); ok {
		return f.Name
	}
	return strings.ToLower(field)
}
