// Package service converts card records to and from their canonical text form and seals
// them into envelopes.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	cardsDomain "github.com/allisson/cardvault/internal/cards/domain"
)

// TimestampLayout renders record timestamps as ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// recordText fixes the field order of the canonical form.
type recordText struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

var requiredStringFields = []string{"fullName", "phoneNumber", "email", "address"}

// RecordCodec serializes card records to canonical JSON text.
//
// The zero value is ready to use and safe for concurrent use.
type RecordCodec struct{}

// ToText renders card as a single-line JSON object with a fixed field order.
func (RecordCodec) ToText(card *cardsDomain.Card) (string, error) {
	rec := recordText{
		FullName:    card.FullName,
		PhoneNumber: card.PhoneNumber,
		Email:       card.Email,
		Address:     card.Address,
		Notes:       card.Notes,
		CreatedAt:   card.CreatedAt.UTC().Format(TimestampLayout),
		UpdatedAt:   card.UpdatedAt.UTC().Format(TimestampLayout),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return "", fmt.Errorf("failed to encode card record: %w", err)
	}

	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// FromText parses canonical record text. Unknown fields are ignored; notes may be absent
// or null. Any other deviation is ErrMalformedRecord.
func (RecordCodec) FromText(text string) (*cardsDomain.Card, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil || fields == nil {
		return nil, cardsDomain.ErrMalformedRecord
	}

	values := make(map[string]string, len(requiredStringFields))
	for _, name := range requiredStringFields {
		value, err := requiredString(fields, name)
		if err != nil {
			return nil, err
		}
		values[name] = value
	}

	notes, err := optionalString(fields, "notes")
	if err != nil {
		return nil, err
	}

	createdAt, err := requiredTimestamp(fields, "createdAt")
	if err != nil {
		return nil, err
	}

	updatedAt, err := requiredTimestamp(fields, "updatedAt")
	if err != nil {
		return nil, err
	}

	return &cardsDomain.Card{
		FullName:    values["fullName"],
		PhoneNumber: values["phoneNumber"],
		Email:       values["email"],
		Address:     values["address"],
		Notes:       notes,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func requiredString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", fmt.Errorf("%w: missing %s", cardsDomain.ErrMalformedRecord, name)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", cardsDomain.ErrMalformedRecord, name)
	}
	return value, nil
}

func optionalString(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return "", nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%w: %s is not a string", cardsDomain.ErrMalformedRecord, name)
	}
	return value, nil
}

func requiredTimestamp(fields map[string]json.RawMessage, name string) (time.Time, error) {
	value, err := requiredString(fields, name)
	if err != nil {
		return time.Time{}, err
	}

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s is not an RFC 3339 timestamp", cardsDomain.ErrMalformedRecord, name)
	}
	return ts.UTC(), nil
}
