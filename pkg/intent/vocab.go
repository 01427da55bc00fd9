package intent

import (
	"strconv"

	"github.com/stayflow/concierge/pkg/site"
)

// The vocabularies below are the whole of the system's language
// understanding. Matching is exact set membership over lower-cased tokens,
// so inflected Bulgarian forms are enumerated rather than stemmed.
var (
	bookingVocab = []string{
		"резервация", "резервации", "резервирай", "резервирайте", "резервирам",
		"резервиране", "запази", "запазване", "букинг",
		"booking", "book", "reserve", "reservation",
	}

	priceVocab = []string{
		"цена", "цени", "цената", "цените", "ценоразпис", "тарифа", "тарифи", "прайс",
		"price", "prices", "pricing", "cost", "costs", "rate", "rates", "tariff",
	}

	contactVocab = []string{
		"контакт", "контакти", "телефон", "телефони", "имейл", "мейл",
		"поща", "адрес", "връзка",
		"contact", "contacts", "phone", "telephone", "email", "mail", "address",
	}

	roomVocab = []string{
		"стая", "стаи", "стаята", "стаите", "апартамент", "апартаменти", "студио",
		"room", "rooms", "apartment", "apartments", "suite", "suites", "studio",
	}

	searchVocab = []string{
		"търси", "търсене", "провери", "проверка", "проверете", "изпрати",
		"покажи", "намери",
		"search", "find", "check", "submit", "send", "go",
	}

	checkInVocab = []string{
		"настаняване", "пристигане", "чекин",
		"check_in", "checkin", "check-in", "arrival", "from", "from_date", "start_date",
	}

	checkOutVocab = []string{
		"напускане", "заминаване", "чекаут",
		"check_out", "checkout", "check-out", "departure", "to", "to_date", "end_date",
	}

	guestsVocab = []string{
		"гости", "гост", "възрастни", "души", "хора",
		"guests", "guest", "adults", "people", "persons", "pax",
	}
)

// ResolveField returns the value the booking data supplies for a form field,
// decided by intersecting the field's keyword list with the check-in,
// check-out and guests vocabularies. The second return is false when the
// field is not recognized or the matching datum is absent.
func ResolveField(f site.Field, data *BookingData) (string, bool) {
	if data == nil {
		return "", false
	}
	fs := newKeywordSet(f.Keywords)
	switch {
	case fs.hasAny(checkInVocab) && data.CheckIn != "":
		return data.CheckIn, true
	case fs.hasAny(checkOutVocab) && data.CheckOut != "":
		return data.CheckOut, true
	case fs.hasAny(guestsVocab) && data.Guests > 0:
		return strconv.Itoa(data.Guests), true
	}
	return "", false
}

// ClassifyLabel assigns a button kind to a visible label, used when a site
// description is derived heuristically from a live page. Booking wins over
// contact, contact over submit; anything else is other.
func ClassifyLabel(label string) site.ButtonKind {
	tokens := newKeywordSet(Tokenize(label))
	switch {
	case tokens.hasAny(bookingVocab):
		return site.ButtonBooking
	case tokens.hasAny(contactVocab):
		return site.ButtonContact
	case tokens.hasAny(searchVocab):
		return site.ButtonSubmit
	default:
		return site.ButtonOther
	}
}
