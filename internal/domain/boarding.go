package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BirthdayLayout is the persisted birthday format (DD/MM/YYYY).
const BirthdayLayout = "02/01/2006"

var ErrInvalidBirthday = errors.New("birthday must be formatted as DD/MM/YYYY")

// Boarding holds what a student entered during onboarding.
type Boarding struct {
	Birthday       string   `bson:"birthday" json:"birthday"` // DD/MM/YYYY
	PreferredGoals []string `bson:"preferredGoals" json:"preferredGoals"`
}

// ParseBirthday splits a DD/MM/YYYY string into its parts.
// Unpadded values ("5/3/1995") are accepted.
func ParseBirthday(s string) (day, month, year int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return 0, 0, 0, ErrInvalidBirthday
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, ErrInvalidBirthday
		}
		nums[i] = n
	}
	day, month, year = nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return 0, 0, 0, ErrInvalidBirthday
	}
	return day, month, year, nil
}

// FormatBirthday renders t as DD/MM/YYYY.
func FormatBirthday(t time.Time) string {
	return t.Format(BirthdayLayout)
}

// Age returns the age at now. On the birth month with the day reached it is a
// whole number ("29"); otherwise one decimal of months/12 ("28.9").
func Age(birthday string, now time.Time) (string, error) {
	day, month, year, err := ParseBirthday(birthday)
	if err != nil {
		return "", err
	}

	years := now.Year() - year
	months := int(now.Month()) - month
	days := now.Day() - day

	if days < 0 {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}

	if months == 0 && days >= 0 {
		return strconv.Itoa(years), nil
	}
	return fmt.Sprintf("%.1f", float64(years)+float64(months)/12), nil
}

// IsBirthday reports whether now falls on the birthday's day and month.
func IsBirthday(birthday string, now time.Time) bool {
	day, month, _, err := ParseBirthday(birthday)
	if err != nil {
		return false
	}
	return now.Day() == day && int(now.Month()) == month
}
