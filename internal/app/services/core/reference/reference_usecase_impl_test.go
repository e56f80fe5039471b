package reference

import (
	"context"
	"testing"
	"virem-service/internal/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestUsecase() *referenceUsecase {
	return &referenceUsecase{ReferenceData: config.NewReferenceData(), Log: zap.NewNop()}
}

func TestReferenceUsecase_ListCountries(t *testing.T) {
	countries := newTestUsecase().ListCountries(context.Background())

	require.Len(t, countries, 5)
	assert.Equal(t, "República Dominicana", countries[0].Name)
	assert.Equal(t, 10, countries[0].DigitSlots)
	assert.True(t, countries[0].ChecksumsNationalID)
	assert.Equal(t, "Ecuador", countries[1].Name)
	assert.Equal(t, 9, countries[1].DigitSlots)
	assert.False(t, countries[1].ChecksumsNationalID)
}

func TestReferenceUsecase_SearchSpecialties(t *testing.T) {
	uc := newTestUsecase()

	t.Run("Empty Query Lists Everything", func(t *testing.T) {
		result := uc.SearchSpecialties(context.Background(), "")
		assert.Len(t, result.Specialties, 15)
	})

	t.Run("Case Insensitive Match", func(t *testing.T) {
		result := uc.SearchSpecialties(context.Background(), " LOGÍA ")
		assert.Contains(t, result.Specialties, "Cardiología")
		assert.NotContains(t, result.Specialties, "Pediatría")
		assert.Equal(t, "LOGÍA", result.Query)
	})

	t.Run("No Match", func(t *testing.T) {
		result := uc.SearchSpecialties(context.Background(), "astro")
		assert.Empty(t, result.Specialties)
	})
}

func TestReferenceUsecase_ListGenders(t *testing.T) {
	uc := newTestUsecase()

	genders := uc.ListGenders(context.Background())
	genders[0] = "changed"

	assert.Equal(t, []string{"Hombre", "Mujer", "Otro"}, uc.ListGenders(context.Background()))
}
