package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsConfirmPhrase(t *testing.T) {
	valid := []string{"CONFIRM", "confirm", "Confirm", "  CONFIRM  ", "cOnFiRm"}
	for _, s := range valid {
		assert.True(t, IsConfirmPhrase(s), "%q should match", s)
	}

	invalid := []string{"", "CONFIRMED", "CON FIRM", "YES", "CONFIRM!"}
	for _, s := range invalid {
		assert.False(t, IsConfirmPhrase(s), "%q should not match", s)
	}
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	type payload struct {
		Email   string `json:"email" validate:"required,email"`
		Overall int    `json:"overall" validate:"required,min=1,max=5"`
	}

	v := New()
	err := v.Validate(&payload{Email: "not-an-email", Overall: 9})
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Errors, "email")
	assert.Contains(t, verr.Errors, "overall")
	assert.Equal(t, "Must be at most 5", verr.Errors["overall"])
}

func TestValidateConfirmPhraseRule(t *testing.T) {
	type payload struct {
		ConfirmText string `json:"confirm_text" validate:"required,confirm_phrase"`
	}

	v := New()
	assert.NoError(t, v.Validate(&payload{ConfirmText: "confirm"}))

	err := v.Validate(&payload{ConfirmText: "nope"})
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must match the confirmation phrase", verr.Errors["confirm_text"])
}
