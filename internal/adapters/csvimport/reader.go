package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bnema/intakebot/internal/domain"
)

const separator = ';'

// Result holds the accepted rows and the number of rows that were skipped.
type Result struct {
	Decisions []domain.Decision
	Skipped   int
}

func ReadFile(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open decisions csv: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses a header-prefixed CSV of decision id and canonical text.
func Read(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var result Result
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("read decisions csv: %w", err)
		}
		if header {
			header = false
			continue
		}

		decision, ok := parseRecord(record)
		if !ok {
			result.Skipped++
			continue
		}
		result.Decisions = append(result.Decisions, decision)
	}

	return result, nil
}

func parseRecord(record []string) (domain.Decision, bool) {
	if len(record) < 2 {
		return domain.Decision{}, false
	}

	id, ok := domain.ParseDecisionID(clean(record[0]))
	if !ok {
		return domain.Decision{}, false
	}

	text := clean(record[1])
	if text == "" {
		return domain.Decision{}, false
	}

	return domain.Decision{ID: id, CanonicalText: text}, true
}

func clean(field string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(field), `"«»`))
}
