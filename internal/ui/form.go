package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
)

// field indexes the details inputs.
type field int

const (
	fieldConcertName field = iota
	fieldArtist
	fieldVenue
	fieldCity
	fieldDate
	fieldTicketType
	fieldPrice
	fieldSeatInfo
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldConcertName: "Concert",
	fieldArtist:      "Artist",
	fieldVenue:       "Venue",
	fieldCity:        "City",
	fieldDate:        "Date",
	fieldTicketType:  "Type",
	fieldPrice:       "Price",
	fieldSeatInfo:    "Seat",
	fieldNotes:       "Notes",
}

var fieldPlaceholders = [fieldCount]string{
	fieldConcertName: "required",
	fieldDate:        models.DateLayout,
	fieldPrice:       "0.00",
}

// detailsForm holds one text input per ticket field.
type detailsForm struct {
	inputs [fieldCount]textinput.Model
	focus  field
}

func newDetailsForm() detailsForm {
	var f detailsForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldPlaceholders[i]
		in.CharLimit = 200
		f.inputs[i] = in
	}
	f.inputs[fieldConcertName].Focus()
	return f
}

// move shifts focus by delta, wrapping around.
func (f *detailsForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = field((int(f.focus) + delta + int(fieldCount)) % int(fieldCount))
	f.inputs[f.focus].Focus()
}

// fill copies ticket into the inputs.
func (f *detailsForm) fill(t models.Ticket) {
	f.inputs[fieldConcertName].SetValue(t.ConcertName)
	f.inputs[fieldArtist].SetValue(t.Artist)
	f.inputs[fieldVenue].SetValue(t.Venue)
	f.inputs[fieldCity].SetValue(t.City)
	if t.ConcertDate != nil && !t.ConcertDate.IsZero() {
		f.inputs[fieldDate].SetValue(t.ConcertDate.String())
	}
	f.inputs[fieldTicketType].SetValue(t.TicketType)
	if t.Price != nil {
		f.inputs[fieldPrice].SetValue(strconv.FormatFloat(*t.Price, 'f', 2, 64))
	}
	f.inputs[fieldSeatInfo].SetValue(t.SeatInfo)
	f.inputs[fieldNotes].SetValue(t.Notes)
}

func (f *detailsForm) clear() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.inputs[f.focus].Blur()
	f.focus = fieldConcertName
	f.inputs[f.focus].Focus()
}

func (f *detailsForm) value(fl field) string {
	return strings.TrimSpace(f.inputs[fl].Value())
}

// ticket parses the inputs. Songs are left empty; the session supplies them.
func (f *detailsForm) ticket() (models.Ticket, error) {
	t := models.Ticket{
		ConcertName: f.value(fieldConcertName),
		Artist:      f.value(fieldArtist),
		Venue:       f.value(fieldVenue),
		City:        f.value(fieldCity),
		TicketType:  f.value(fieldTicketType),
		SeatInfo:    f.value(fieldSeatInfo),
		Notes:       f.value(fieldNotes),
	}

	if raw := f.value(fieldDate); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			return t, fmt.Errorf("%w: date must look like %s", shared.ErrInvalidInput, models.DateLayout)
		}
		t.ConcertDate = &d
	}

	if raw := strings.TrimPrefix(f.value(fieldPrice), "$"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return t, fmt.Errorf("%w: price must be a number", shared.ErrInvalidInput)
		}
		t.Price = &p
	}

	return t, nil
}

func (f *detailsForm) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := styles.label
		if field(i) == f.focus {
			label = styles.focused
		}
		fmt.Fprintf(&b, "%s %s\n", label.Render(fieldLabels[i]), in.View())
	}
	return b.String()
}
