package processors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/username/finanphy/console/src/models"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc"/"desc" (and their long forms); blank means Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("invalid timeline direction %q", s)
}

// BuildTimeline returns a new slice ordered by date. Entries with equal dates
// keep their input order in both directions. The input is not modified.
func BuildTimeline(transactions []models.Transaction, direction Direction) []models.Transaction {
	timeline := make([]models.Transaction, len(transactions))
	copy(timeline, transactions)

	if direction == Descending {
		sort.SliceStable(timeline, func(i, j int) bool {
			return timeline[i].Date.After(timeline[j].Date)
		})
	} else {
		sort.SliceStable(timeline, func(i, j int) bool {
			return timeline[i].Date.Before(timeline[j].Date)
		})
	}
	return timeline
}

// Recent returns up to n of the most recent transactions, newest first.
func Recent(transactions []models.Transaction, n int) []models.Transaction {
	if n <= 0 {
		return []models.Transaction{}
	}
	timeline := BuildTimeline(transactions, Descending)
	if len(timeline) > n {
		timeline = timeline[:n]
	}
	return timeline
}

// Merge concatenates per-origin batches in the given order. Combined with
// the stable sort in BuildTimeline, this fixes the tie-break for equal dates.
func Merge(batches ...[]models.Transaction) []models.Transaction {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	merged := make([]models.Transaction, 0, total)
	for _, b := range batches {
		merged = append(merged, b...)
	}
	return merged
}
