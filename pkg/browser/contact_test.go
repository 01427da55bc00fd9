package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnContactFindsPhoneAndEmail(t *testing.T) {
	sess, page := newStubSession(t)
	page.bodyText = "Свържете се с нас: +359 88 123 4567 или на office@hotel-roza.bg за запитвания."

	res := sess.returnContact()

	require.True(t, res.Success)
	assert.Equal(t, "Телефон: +359 88 123 4567. Имейл: office@hotel-roza.bg", res.Message)
	assert.NotNil(t, res.Observation)
}

func TestReturnContactPrefersInternationalNumber(t *testing.T) {
	sess, page := newStubSession(t)
	page.bodyText = "Мобилен: 0888 777 666, рецепция: +359 2 111 2222"

	res := sess.returnContact()

	require.True(t, res.Success)
	assert.Equal(t, "Телефон: +359 2 111 2222", res.Message)
}

func TestReturnContactLocalNumberFallback(t *testing.T) {
	sess, page := newStubSession(t)
	page.bodyText = "Обадете се на 02 987 6543 всеки делник."

	res := sess.returnContact()

	require.True(t, res.Success)
	assert.Equal(t, "Телефон: 02 987 6543", res.Message)
}

func TestReturnContactEmailOnly(t *testing.T) {
	sess, page := newStubSession(t)
	page.bodyText = "Пишете ни на reservations@hotel-roza.bg"

	res := sess.returnContact()

	require.True(t, res.Success)
	assert.Equal(t, "Имейл: reservations@hotel-roza.bg", res.Message)
}

func TestReturnContactNothingFound(t *testing.T) {
	sess, page := newStubSession(t)
	page.bodyText = "Добре дошли в нашия хотел в центъра на града."

	res := sess.returnContact()

	require.False(t, res.Success)
	assert.Equal(t, "Не открих телефон или имейл на страницата.", res.Message)
}

func TestReturnContactReadFailure(t *testing.T) {
	sess, page := newStubSession(t)
	page.textErr = errors.New("page closed")

	res := sess.returnContact()

	require.False(t, res.Success)
	assert.Equal(t, "Не успях да прочета страницата.", res.Message)
}

func TestPhonePatterns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "international with spaces", text: "тел. +359 88 123 4567", want: "+359 88 123 4567"},
		{name: "international compact", text: "call +35928765432 now", want: "+35928765432"},
		{name: "international with parens", text: "+359 (2) 876-5432", want: "+359 (2) 876-5432"},
		{name: "stops at punctuation", text: "номер +359 88 123 4567, етаж 2", want: "+359 88 123 4567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phoneIntlPattern.FindString(tt.text))
		})
	}
}
