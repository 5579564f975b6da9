package models

import "fmt"

// Category is the age/team grouping a player, training or gallery item belongs to.
type Category string

const (
	CategoryU8U9    Category = "U8-U9"
	CategoryU10U11  Category = "U10-U11"
	CategoryU13     Category = "U13"
	CategoryU15     Category = "U15"
	CategoryA       Category = "A"
	CategoryGeneral Category = "general"
)

// TeamCategories lists the categories players and trainings can belong to, youngest first.
var TeamCategories = []Category{
	CategoryU8U9,
	CategoryU10U11,
	CategoryU13,
	CategoryU15,
	CategoryA,
}

// Valid reports whether c is one of the team categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryU8U9, CategoryU10U11, CategoryU13, CategoryU15, CategoryA:
		return true
	case CategoryGeneral:
		return false
	default:
		return false
	}
}

// ValidForGallery additionally accepts the "general" bucket.
func (c Category) ValidForGallery() bool {
	return c == CategoryGeneral || c.Valid()
}

// Label returns the name shown on the club site.
func (c Category) Label() string {
	switch c {
	case CategoryU8U9:
		return "Mladšia prípravka"
	case CategoryU10U11:
		return "Staršia prípravka"
	case CategoryU13:
		return "Mladší žiaci"
	case CategoryU15:
		return "Starší žiaci"
	case CategoryA:
		return "A mužstvo"
	case CategoryGeneral:
		return "Všeobecné"
	default:
		return string(c)
	}
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
