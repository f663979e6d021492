package content

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column order of an import sheet.
const (
	colWord = iota
	colReading
	colRomaji
	colMeaning
	colPartOfSpeech
	colJLPT
	colCategory
)

var validPartsOfSpeech = map[string]bool{
	"noun": true, "verb": true, "adjective": true, "adverb": true, "particle": true,
	"expression": true, "counter": true, "pronoun": true, "conjunction": true,
}

type ImportConfig struct {
	FilePath  string
	SheetName string // xlsx only; first sheet when empty
	StartRow  int    // 1-based; 2 skips a header row
	IDPrefix  string
}

func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{FilePath: path, StartRow: 2, IDPrefix: "import"}
}

type ImportResult struct {
	TotalProcessed int
	Words          []VocabularyWord
	Skipped        int
	Errors         []string
}

// ImportVocabulary reads a word list from an .xlsx or .csv file with the
// columns word, reading, romaji, meaning, part of speech, JLPT, category.
// Bad rows are reported in Errors and skipped.
func ImportVocabulary(cfg ImportConfig) (*ImportResult, error) {
	if cfg.StartRow < 1 {
		cfg.StartRow = 1
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		rows, err = readCSV(cfg.FilePath)
	case ".xlsx", ".xlsm":
		rows, err = readExcel(cfg.FilePath, cfg.SheetName)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(cfg.FilePath))
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	seen := map[string]bool{}
	for i, row := range rows {
		if i < cfg.StartRow-1 || isBlank(row) {
			continue
		}
		result.TotalProcessed++

		w, err := parseRow(row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			result.Skipped++
			continue
		}
		key := w.JLPT + "|" + w.Word + "|" + w.Reading
		if seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true

		w.ID = fmt.Sprintf("%s-%s-%d", cfg.IDPrefix, strings.ToLower(w.JLPT), len(result.Words)+1)
		result.Words = append(result.Words, w)
	}

	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string) (VocabularyWord, error) {
	w := VocabularyWord{
		Word:         cell(row, colWord),
		Reading:      cell(row, colReading),
		Romaji:       strings.ToLower(cell(row, colRomaji)),
		Meaning:      cell(row, colMeaning),
		PartOfSpeech: strings.ToLower(cell(row, colPartOfSpeech)),
		JLPT:         strings.ToUpper(cell(row, colJLPT)),
		Category:     strings.ToLower(cell(row, colCategory)),
	}

	if w.Word == "" {
		return w, errors.New("word is empty")
	}
	if w.Meaning == "" {
		return w, errors.New("meaning is empty")
	}
	if w.Reading == "" {
		w.Reading = w.Word
	}
	if w.PartOfSpeech == "" {
		w.PartOfSpeech = "noun"
	}
	if !validPartsOfSpeech[w.PartOfSpeech] {
		return w, fmt.Errorf("unknown part of speech %q", w.PartOfSpeech)
	}
	if w.JLPT == "" {
		w.JLPT = "N5"
	}
	if !ValidJLPT(w.JLPT) {
		return w, fmt.Errorf("unknown JLPT level %q", w.JLPT)
	}
	return w, nil
}
