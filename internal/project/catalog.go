// Package project serves the project listings shown on the landing page.
// Listings are demo data until project storage exists.
package project

import (
	"errors"

	"github.com/cryptostarter/cryptostarter/internal/locale"
)

// Status selects a project listing
type Status string

const (
	StatusActive   Status = "active"
	StatusPrepared Status = "prepared"
	StatusDone     Status = "done"
)

var ErrUnknownStatus = errors.New("unknown project status")

const stubImage = "/img/project_stub.jpeg"

// Summary is a project card
type Summary struct {
	ID          int    `json:"id"`
	Image       string `json:"img"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    string `json:"progress"`
	Count       string `json:"count"`
	Percent     string `json:"percent"`
	Days        string `json:"days"`
}

type listing struct {
	count  int
	offset int
}

var listings = map[Status]listing{
	StatusActive:   {count: 6, offset: 0},
	StatusPrepared: {count: 3, offset: 10},
	StatusDone:     {count: 2, offset: 15},
}

// ParseStatus validates a status from a query string. Empty means active.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusActive, nil
	}
	st := Status(s)
	if _, ok := listings[st]; !ok {
		return "", ErrUnknownStatus
	}
	return st, nil
}

// List returns the project cards for status with texts from l
func List(status Status, l *locale.Locale) ([]Summary, error) {
	ls, ok := listings[status]
	if !ok {
		return nil, ErrUnknownStatus
	}

	title := l.T("demo.project_title")
	description := l.T("demo.project_desc")

	result := make([]Summary, 0, ls.count)
	for i := 0; i < ls.count; i++ {
		result = append(result, Summary{
			ID:          ls.offset + i,
			Image:       stubImage,
			Title:       title,
			Description: description,
			Progress:    "75",
			Count:       "332",
			Percent:     "75",
			Days:        "10",
		})
	}
	return result, nil
}
