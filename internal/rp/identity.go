package rp

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNoNamePool indicates first or last name pools are not configured.
var ErrNoNamePool = errors.New("name pools not configured")

// GenerateIdentity returns a random personal number and a name drawn from the
// configured pools.
func (s *Service) GenerateIdentity() (Identity, error) {
	if len(s.data.FirstNames) == 0 || len(s.data.LastNames) == 0 {
		return Identity{}, ErrNoNamePool
	}

	first := s.data.FirstNames[rand.Intn(len(s.data.FirstNames))]
	last := s.data.LastNames[rand.Intn(len(s.data.LastNames))]

	return Identity{
		PersonalNumber: RandomPersonalNumber(),
		Name:           first + " " + last,
	}, nil
}

// RandomPersonalNumber returns a 12-digit YYYYMMDDNNNC personal number with a
// valid check digit.
func RandomPersonalNumber() string {
	year := 1850 + rand.Intn(150)
	month := 1 + rand.Intn(11)
	day := 1 + rand.Intn(24)
	serial := rand.Intn(999)

	whole := fmt.Sprintf("%d%02d%02d%03d", year, month, day, serial)
	return whole + string(rune('0'+Luhn(whole[2:])))
}

// Luhn computes the check digit for digits, doubling every even position
// counted from the left. Non-digits count as zero.
func Luhn(digits string) int {
	var sum int
	for i, c := range digits {
		v := 0
		if c >= '0' && c <= '9' {
			v = int(c - '0')
		}
		if i%2 == 0 {
			v *= 2
		}
		if v > 9 {
			v -= 9
		}
		sum += v
	}
	return (10 - sum%10) % 10
}
