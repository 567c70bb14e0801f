// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
)

// Sex identifies the sex column of the SSA dataset ("M" or "F").
type Sex string

// Valid sex values as they appear in the dataset.
const (
	Male   Sex = "M"
	Female Sex = "F"
)

// ErrInvalidSex reports a sex value outside the dataset's M/F domain.
var ErrInvalidSex = errors.New("invalid sex")

// ParseSex validates a raw sex column value.
func ParseSex(s string) (Sex, error) {
	switch Sex(s) {
	case Male, Female:
		return Sex(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSex, s)
	}
}

// Sexes lists both values in deterministic order (M first, matching the
// original dataset's trending enumeration).
func Sexes() []Sex {
	return []Sex{Male, Female}
}

// Record is one row of a yobYYYY.txt file: the number of babies registered
// with a given name and sex in a given year.
type Record struct {
	Name  string
	Sex   Sex
	Year  int
	Count int
}

// Key identifies a (name, sex) pair across years.
type Key struct {
	Name string
	Sex  Sex
}

// Key returns the cross-year identity of the record.
func (r Record) Key() Key {
	return Key{Name: r.Name, Sex: r.Sex}
}

// PageSlug returns the file stem used for the name's generated page,
// e.g. "Olivia-F".
func (k Key) PageSlug() string {
	return k.Name + "-" + string(k.Sex)
}
