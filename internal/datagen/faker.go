//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides seeded synthetic data sources.
package datagen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
)

// ErrUniqueExhausted is returned when the synthetic source cannot produce a
// value that has not been handed out before.
var ErrUniqueExhausted = errors.New("synthetic source exhausted unique values")

// maxUniqueAttempts bounds the retries for a fresh unique value.
const maxUniqueAttempts = 1000

// PCG stream selectors. The synthetic source and the general random source
// share a seed but never a stream.
const (
	fakerStream  uint64 = 0x9e3779b97f4a7c15
	randomStream uint64 = 0xbf58476d1ce4e5b9
)

var (
	birthdateStart = time.Date(1910, 1, 1, 0, 0, 0, 0, time.UTC)
	birthdateEnd   = time.Date(2007, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
	seen  map[string]struct{}
}

// NewFakerWithSeed creates a new Faker with a specific seed for
// reproducibility. Zero is an ordinary seed, not a request for randomness.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.NewFaker(rand.NewPCG(seed, fakerStream), false),
		seen:  make(map[string]struct{}),
	}
}

// Name generates a random full name.
func (f *Faker) Name() string {
	return f.faker.Name()
}

// Username generates a random username.
func (f *Faker) Username() string {
	return f.faker.Username()
}

// Email generates a random email address.
func (f *Faker) Email() string {
	return f.faker.Email()
}

// Phone generates a random phone number.
func (f *Faker) Phone() string {
	return f.faker.Phone()
}

// Birthdate returns an ISO date between 1910 and 2007.
func (f *Faker) Birthdate() string {
	return f.faker.DateRange(birthdateStart, birthdateEnd).Format(time.DateOnly)
}

// AddressLine returns a full postal address on a single line.
func (f *Faker) AddressLine() string {
	addr := f.faker.Address()
	return strings.ReplaceAll(addr.Address, "\n", ", ")
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// State generates a random US state name.
func (f *Faker) State() string {
	return f.faker.State()
}

// Zip generates a random US ZIP code.
func (f *Faker) Zip() string {
	return f.faker.Zip()
}

// Company generates a random company name.
func (f *Faker) Company() string {
	return f.faker.Company()
}

// UniqueWord returns a word this Faker has never returned from UniqueWord.
func (f *Faker) UniqueWord() (string, error) {
	return f.unique(f.faker.Word)
}

// DateRange generates a random time within [start, end].
func (f *Faker) DateRange(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

func (f *Faker) unique(next func() string) (string, error) {
	for i := 0; i < maxUniqueAttempts; i++ {
		v := next()
		if _, ok := f.seen[v]; ok {
			continue
		}
		f.seen[v] = struct{}{}
		return v, nil
	}
	return "", fmt.Errorf("%w: no fresh value after %d attempts (%d issued)",
		ErrUniqueExhausted, maxUniqueAttempts, len(f.seen))
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
