package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleForm struct {
	Name           string `validate:"required"`
	WhatsappNumber string `validate:"required,numeric,len=10"`
}

func TestValidationMessages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sampleForm{WhatsappNumber: "12ab"})
	msgs := ValidationMessages(err)
	assert.Contains(t, msgs, "Name is required")
	assert.Contains(t, msgs, "Whatsapp number must contain only digits")

	assert.NoError(t, v.Validate(sampleForm{Name: "Rama", WhatsappNumber: "9876543210"}))
	assert.Equal(t, []string{"boom"}, ValidationMessages(errors.New("boom")))
}
