package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParsePlusOne(t *testing.T) {
	truthy := []any{true, "true", "TRUE", " yes ", "1", "on", "On", "ja", float64(1), 1}
	for _, v := range truthy {
		assert.True(t, ParsePlusOne(v), "%#v", v)
	}

	falsy := []any{false, "false", "0", "off", "no", "", "maybe", float64(0), float64(2), nil}
	for _, v := range falsy {
		assert.False(t, ParsePlusOne(v), "%#v", v)
	}
}

func TestParseRegistration(t *testing.T) {
	t.Run("Normalizes", func(t *testing.T) {
		reg, err := ParseRegistration(RegistrationInput{
			Name:      "  Kari Nordmann ",
			Email:     " Kari@Example.COM ",
			PlusOne:   "on",
			Allergies: strPtr("  nuts "),
			Notes:     strPtr("   "),
		})
		require.NoError(t, err)
		assert.Equal(t, "Kari Nordmann", reg.Name)
		assert.Equal(t, "kari@example.com", reg.Email)
		require.NotNil(t, reg.PlusOne)
		assert.True(t, *reg.PlusOne)
		require.NotNil(t, reg.Allergies)
		assert.Equal(t, "nuts", *reg.Allergies)
		assert.Nil(t, reg.Notes)
	})

	t.Run("PlusOneFalseIsPresent", func(t *testing.T) {
		reg, err := ParseRegistration(RegistrationInput{Name: "Ola", Email: "ola@example.no", PlusOne: false})
		require.NoError(t, err)
		require.NotNil(t, reg.PlusOne)
		assert.False(t, *reg.PlusOne)
	})

	t.Run("PlusOneNullIsFalse", func(t *testing.T) {
		reg, err := ParseRegistration(RegistrationInput{Name: "Ola", Email: "ola@example.no", PlusOne: nil, PlusOneSet: true})
		require.NoError(t, err)
		require.NotNil(t, reg.PlusOne)
		assert.False(t, *reg.PlusOne)
	})

	t.Run("MissingPlusOne", func(t *testing.T) {
		_, err := ParseRegistration(RegistrationInput{Name: "Ola", Email: "ola@example.no"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "plusOne")
		assert.Len(t, verr.Fields, 1)
	})

	t.Run("AllFieldsInvalid", func(t *testing.T) {
		_, err := ParseRegistration(RegistrationInput{Name: " A ", Email: "not an email"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, fieldMessages["name"], verr.Fields["name"])
		assert.Equal(t, fieldMessages["email"], verr.Fields["email"])
		assert.Equal(t, fieldMessages["plusOne"], verr.Fields["plusOne"])
		assert.Equal(t, "invalid registration: email, name, plusOne", verr.Error())
	})

	t.Run("EmailShape", func(t *testing.T) {
		bad := []string{"", "a@b", "a b@c.no", "@c.no", "a@.no@x"}
		for _, e := range bad {
			_, err := ParseRegistration(RegistrationInput{Name: "Ola", Email: e, PlusOne: true})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, "email %q", e)
			assert.Contains(t, verr.Fields, "email")
		}
	})
}
