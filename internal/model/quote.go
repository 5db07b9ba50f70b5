package model

import (
	"errors"
	"strings"
)

const DefaultQuoteCategory = "motivation"

// Quote is a motivational quote, either fetched from the remote service or
// taken from the built-in fallback list.
type Quote struct {
	ID       string
	Text     string
	Author   string
	Category string
}

func (q Quote) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return errors.New("model: quote id is required")
	}
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("model: quote text is required")
	}
	return nil
}
