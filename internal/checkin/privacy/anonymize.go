package privacy

import (
	"fmt"
	"time"
)

// bracket is an inclusive integer range with its output label.
type bracket struct {
	lo, hi int
	label  string
}

// Age brackets for the stats table. The top bound of the last bracket is a
// sentinel; any age of 80 or more lands there.
var ageBrackets = []bracket{
	{0, 19, "0-19"},
	{20, 29, "20-29"},
	{30, 39, "30-39"},
	{40, 49, "40-49"},
	{50, 59, "50-59"},
	{60, 69, "60-69"},
	{70, 79, "70-79"},
	{80, 200, "80-200"},
}

// Entry-hour brackets over the 24-hour clock. Hours are always 0-23, so the
// 24 in the evening bracket is unreachable and midnight falls in "0-6".
var hourBrackets = []bracket{
	{7, 12, "7-12"},
	{13, 18, "13-18"},
	{19, 24, "19-24"},
	{0, 6, "0-6"},
}

// PersonalRecord is the identifying view of one check-in before
// generalization. It never leaves the process.
type PersonalRecord struct {
	Sex        string
	BirthDate  time.Time
	LocationID int
	Timestamp  time.Time // visit timestamp from the request
}

// StatTuple is the k-anonymous output: no birth date, no raw timestamp,
// no card identifier.
type StatTuple struct {
	Sex         string
	AgeBracket  string
	LocationID  int
	EntryDate   time.Time // date component of the visit, midnight UTC
	TimeBracket string
}

// Anonymize generalizes rec into a StatTuple. today supplies the reference
// date for the age computation (the caller passes its clock reading).
// Fails closed: an age outside every bracket yields an error, never an
// empty label.
func Anonymize(rec PersonalRecord, today time.Time) (StatTuple, error) {
	age := ageOn(rec.BirthDate, today)

	ageBracket, ok := lookupBracket(ageBrackets, age)
	if !ok {
		return StatTuple{}, fmt.Errorf("privacy: no age bracket for age %d", age)
	}

	timeBracket, ok := lookupBracket(hourBrackets, rec.Timestamp.Hour())
	if !ok {
		return StatTuple{}, fmt.Errorf("privacy: no time bracket for hour %d", rec.Timestamp.Hour())
	}

	y, m, d := rec.Timestamp.Date()
	return StatTuple{
		Sex:         rec.Sex,
		AgeBracket:  ageBracket,
		LocationID:  rec.LocationID,
		EntryDate:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TimeBracket: timeBracket,
	}, nil
}

// ageOn computes the age in whole years on the given date: birth-year
// difference, minus one if this year's birthday has not happened yet.
// The birthday is rebuilt with time.Date, which normalizes Feb 29 to Mar 1
// in non-leap years, so leap-day birthdays count as passed from Mar 1.
func ageOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	birthday := time.Date(today.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	ty, tm, td := today.Date()
	if time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Before(birthday) {
		age--
	}
	return age
}

func lookupBracket(table []bracket, v int) (string, bool) {
	for _, b := range table {
		if v >= b.lo && v <= b.hi {
			return b.label, true
		}
	}
	return "", false
}
