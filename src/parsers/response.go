package parsers

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/username/finanphy/console/src/models"
)

// UseNumber keeps numeric fields as json.Number so amounts are not rounded
// through float64 before they reach the normalizer.
var json = jsoniter.Config{
	EscapeHTML:             true,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

var ErrUnexpectedShape = errors.New("list response is neither an array nor an object with a data array")

// DecodeList unwraps a list response that is either a bare array or {"data": [...]}.
// null and {"data": null} decode to an empty list.
func DecodeList(body []byte) ([]jsoniter.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []jsoniter.RawMessage{}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []jsoniter.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding list response: %w", err)
		}
		return items, nil
	case '{':
		var envelope map[string]jsoniter.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decoding list envelope: %w", err)
		}
		raw, ok := envelope["data"]
		if !ok {
			return nil, ErrUnexpectedShape
		}
		data := bytes.TrimSpace(raw)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			return []jsoniter.RawMessage{}, nil
		}
		if data[0] != '[' {
			return nil, ErrUnexpectedShape
		}
		return DecodeList(data)
	}
	return nil, ErrUnexpectedShape
}

// DecodeTransactions decodes a list response from an income, expense or
// investment endpoint. Elements that are not JSON objects are reported as
// malformed and skipped; the index of every other element is preserved.
func DecodeTransactions(kind models.TransactionKind, body []byte) ([]models.RawTransaction, []int, []*models.MalformedRecordError, error) {
	items, err := DecodeList(body)
	if err != nil {
		return nil, nil, nil, err
	}

	records := make([]models.RawTransaction, 0, len(items))
	indexes := make([]int, 0, len(items))
	var rejected []*models.MalformedRecordError
	for i, item := range items {
		var raw models.RawTransaction
		if err := json.Unmarshal(item, &raw); err != nil {
			rejected = append(rejected, &models.MalformedRecordError{Kind: kind, Index: i, Err: err})
			continue
		}
		raw.Kind = kind
		records = append(records, raw)
		indexes = append(indexes, i)
	}
	return records, indexes, rejected, nil
}

// DecodeProducts decodes GET /products. Non-object elements are skipped.
func DecodeProducts(body []byte) ([]models.RawProduct, error) {
	items, err := DecodeList(body)
	if err != nil {
		return nil, err
	}
	products := make([]models.RawProduct, 0, len(items))
	for _, item := range items {
		var raw models.RawProduct
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		products = append(products, raw)
	}
	return products, nil
}

// DecodeClients decodes GET /api/users. Non-object elements are skipped.
func DecodeClients(body []byte) ([]models.RawClient, error) {
	items, err := DecodeList(body)
	if err != nil {
		return nil, err
	}
	clients := make([]models.RawClient, 0, len(items))
	for _, item := range items {
		var raw models.RawClient
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		clients = append(clients, raw)
	}
	return clients, nil
}

// DecodeObject decodes a single JSON object with numbers kept as json.Number.
func DecodeObject(body []byte, v any) error {
	return json.Unmarshal(body, v)
}
