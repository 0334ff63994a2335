package data

import (
	"path/filepath"
	"strings"
	"testing"

	"heartrisk/internal/features"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSyntheticStaysInDomain(t *testing.T) {
	records := GenerateSynthetic(500, 1)
	require.Len(t, records, 500)
	pos := 0
	for _, r := range records {
		v, _ := features.Vectorize(r.Patient)
		require.NoError(t, features.Validate(v))
		pos += r.Target
	}
	// both classes must be well represented for the trainer's stratified split
	assert.Greater(t, pos, 100)
	assert.Less(t, pos, 400)

	assert.Equal(t, records, GenerateSynthetic(500, 1))
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "heart.csv")
	records := GenerateSynthetic(25, 2)
	require.NoError(t, WriteCSV(path, records))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	X, y := XY(got)
	assert.Len(t, X, 25)
	assert.Len(t, y, 25)
	assert.Len(t, X[0], features.Size)
}

func TestReadAcceptsReorderedColumns(t *testing.T) {
	in := "target,age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,extra\n" +
		"1,63,1,3,145,233,1,0,150,0,2.3,0,0,1,x\n"
	got, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Target)
	assert.Equal(t, 63.0, got[0].Age)
	assert.Equal(t, 2.3, got[0].Oldpeak)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("age,sex\n1,0\n"))
	assert.ErrorContains(t, err, "missing column")

	_, err = Read(strings.NewReader(strings.Join(Header(), ",") + "\n"))
	assert.Error(t, err)

	row := "63,1,3,145,233,1,0,150,0,2.3,0,0,1,2"
	_, err = Read(strings.NewReader(strings.Join(Header(), ",") + "\n" + row + "\n"))
	assert.ErrorContains(t, err, "target")
}
