package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

func workbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []interface{}{"ID", "Title", "Description", "Options", "Correct_Option", "Explanation", "Difficulty", "Category", "Tags", "Code_Snippet"}

func TestReadWorkbook(t *testing.T) {
	buf := workbook(t, DefaultSheet, [][]interface{}{
		header,
		{"q-1", "Two sum", "Find indices", "A: hash map|B: sort|C: brute force", "A", "O(n)", "medium", "arrays", "Array, HashMap, Array", ""},
		{"", "Reverse", "Reverse a list", "iterate|recurse", "1", "", "EASY", "lists", "", "func f() {}"},
		{"q-3", "Broken", "no options", "only one", "0", "", "EASY", "", "", ""},
		{},
		{"q-4", "Bad difficulty", "x", "a|b", "0", "", "EXTREME", "", "", ""},
	})

	res, err := ReadWorkbook(buf, "")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Questions, 2)
	require.Len(t, res.Errors, 2)
	assert.True(t, strings.HasPrefix(res.Errors[0], "row 4:"), res.Errors[0])
	assert.True(t, strings.HasPrefix(res.Errors[1], "row 6:"), res.Errors[1])

	first := res.Questions[0]
	assert.Equal(t, "q-1", first.ID)
	assert.Equal(t, types.DifficultyMedium, first.Difficulty)
	assert.Equal(t, 0, first.CorrectOption)
	assert.Equal(t, []string{"Array", "HashMap"}, []string(first.Tags))
	assert.Equal(t, "hash map", first.Options[0].Text)
	assert.Nil(t, first.CodeSnippet)

	second := res.Questions[1]
	assert.Empty(t, second.ID)
	assert.Equal(t, []types.QuestionOption{{Key: "A", Text: "iterate"}, {Key: "B", Text: "recurse"}}, []types.QuestionOption(second.Options))
	assert.Equal(t, 1, second.CorrectOption)
	require.NotNil(t, second.CodeSnippet)
	assert.Empty(t, second.Tags)
}

func TestReadWorkbookErrors(t *testing.T) {
	buf := workbook(t, "Other", [][]interface{}{header})
	_, err := ReadWorkbook(bytes.NewReader(buf.Bytes()), DefaultSheet)
	assert.ErrorContains(t, err, "not found")

	buf = workbook(t, DefaultSheet, [][]interface{}{{"id", "title"}})
	_, err = ReadWorkbook(buf, DefaultSheet)
	assert.ErrorContains(t, err, "missing columns")
}

func TestReadCSV(t *testing.T) {
	data := "title,description,options,correct_option,difficulty,tags\n" +
		"Heap,Pick a structure,\"a|b|c\",c,hard,\"graph,Graph\"\n" +
		"Dup,keys,\"A: x|a: y\",A,easy,\n"
	res, err := ReadFile("bank.CSV", "", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, res.Questions, 1)
	q := res.Questions[0]
	assert.Equal(t, 2, q.CorrectOption)
	assert.Equal(t, types.DifficultyHard, q.Difficulty)
	assert.Equal(t, []string{"graph", "Graph"}, []string(q.Tags))
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "duplicate option key")
}
