package domain

// Placement is a text run drawn with its baseline at (X, Y) in PDF points,
// measured from the bottom-left corner of the page.
type Placement struct {
	X, Y float64
	Text string
}

type PageSize struct {
	Width, Height float64
}

// A4 is used when the template's own page size cannot be read.
var A4 = PageSize{Width: 595.2756, Height: 841.8898}

const (
	FontFamily = "Times"
	FontSize   = 9.0
)

// Placements lays s out over the receipt form.
func (s Student) Placements() []Placement {
	return []Placement{
		{X: 100, Y: 657, Text: s.Name},
		{X: 490, Y: 657, Text: " " + s.Age},
		{X: 520, Y: 657, Text: s.Sex},
		{X: 155, Y: 640, Text: "     " + s.BirthDate},
		{X: 280, Y: 640, Text: " " + s.CPF},
		{X: 125, Y: 620, Text: " " + s.Mother},
		{X: 400, Y: 620, Text: " " + s.Phone},
		{X: 100, Y: 605, Text: " " + s.Address},
		{X: 100, Y: 585, Text: " " + s.City},
		{X: 430, Y: 585, Text: " " + s.PostCode},
		{X: 550, Y: 750, Text: " " + s.SafeClass()},
		{X: 370, Y: 585, Text: " " + State},
	}
}
