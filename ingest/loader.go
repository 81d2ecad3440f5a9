package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/theoria/core"
)

// caseDocument is the JSONL import schema, one case per line.
type caseDocument struct {
	Name     string   `json:"name"`
	Code     string   `json:"code"`
	Year     int      `json:"year"`
	Subject  string   `json:"subject"`
	Industry string   `json:"industry"`
	Keywords string   `json:"keywords"`
	Theories []string `json:"theories"`
	Summary  string   `json:"summary"`
}

// LoadJSONL reads case records from a JSON-lines file. Blank lines are
// skipped; a malformed line aborts the load with its line number.
func LoadJSONL(path string) ([]*core.CaseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	var records []*core.CaseRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var doc caseDocument
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedInput, path, lineNo, err)
		}

		records = append(records, &core.CaseRecord{
			Name:     doc.Name,
			Code:     doc.Code,
			Year:     doc.Year,
			Subject:  doc.Subject,
			Industry: doc.Industry,
			Keywords: doc.Keywords,
			Theories: doc.Theories,
			Summary:  doc.Summary,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, path, err)
	}

	return records, nil
}
