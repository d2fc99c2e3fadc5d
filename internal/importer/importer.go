// Package importer reads authored question banks from spreadsheets.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

const DefaultSheet = "Questions"

// Columns are matched by header name, case-insensitively.
var columns = []string{
	"id", "title", "description", "options", "correct_option",
	"explanation", "difficulty", "category", "tags", "code_snippet",
}

var required = []string{"title", "description", "options", "correct_option", "difficulty"}

type Result struct {
	Processed int
	Questions []*types.Question
	Skipped   int
	Errors    []string
}

// ReadFile parses an .xlsx workbook or a .csv file based on its extension.
func ReadFile(path, sheet string, r io.Reader) (*Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCSV(r)
	}
	return ReadWorkbook(r, sheet)
}

func ReadWorkbook(r io.Reader, sheet string) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return parseRows(rows)
}

func ReadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}
	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}
	res := &Result{Questions: []*types.Question{}, Errors: []string{}}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		res.Processed++
		q, err := parseRow(row, index)
		if err != nil {
			res.Skipped++
			// +2: one for the header, one for 1-based rows
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		res.Questions = append(res.Questions, q)
	}
	return res, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		for _, c := range columns {
			if key == c {
				index[c] = i
			}
		}
	}
	var missing []string
	for _, c := range required {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (*types.Question, error) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	q := &types.Question{
		ID:          cell("id"),
		Title:       cell("title"),
		Description: cell("description"),
		Explanation: cell("explanation"),
		Category:    cell("category"),
		Tags:        datatypes.JSONSlice[string](splitTags(cell("tags"))),
	}
	if q.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if q.Description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if snippet := cell("code_snippet"); snippet != "" {
		q.CodeSnippet = &snippet
	}

	d, err := types.ParseDifficulty(cell("difficulty"))
	if err != nil {
		return nil, err
	}
	q.Difficulty = d

	opts, err := parseOptions(cell("options"))
	if err != nil {
		return nil, err
	}
	q.Options = datatypes.JSONSlice[types.QuestionOption](opts)

	correct, err := parseCorrect(cell("correct_option"), opts)
	if err != nil {
		return nil, err
	}
	q.CorrectOption = correct
	return q, nil
}

// parseOptions reads "|"-separated entries, each either "KEY: text" or bare
// text. Bare entries get keys A, B, C in order.
func parseOptions(raw string) ([]types.QuestionOption, error) {
	var out []types.QuestionOption
	seen := map[string]bool{}
	for i, part := range strings.Split(raw, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, text := optionKey(len(out)), part
		if k, t, ok := strings.Cut(part, ":"); ok && isKey(strings.TrimSpace(k)) {
			key, text = strings.ToUpper(strings.TrimSpace(k)), strings.TrimSpace(t)
		}
		if text == "" {
			return nil, fmt.Errorf("option %d has no text", i+1)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate option key %q", key)
		}
		seen[key] = true
		out = append(out, types.QuestionOption{Key: key, Text: text})
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("at least two options are required")
	}
	return out, nil
}

// parseCorrect accepts a zero-based index or an option key.
func parseCorrect(raw string, opts []types.QuestionOption) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("correct_option is required")
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 || n >= len(opts) {
			return 0, fmt.Errorf("correct_option %d out of range", n)
		}
		return n, nil
	}
	for i, o := range opts {
		if strings.EqualFold(o.Key, raw) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("correct_option %q matches no option", raw)
}

// splitTags keeps tag case; matching against preferences is exact.
func splitTags(raw string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func optionKey(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

func isKey(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
