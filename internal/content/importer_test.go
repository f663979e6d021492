package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestImportVocabularyCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	data := "word,reading,romaji,meaning,pos,jlpt,category\n" +
		"猫,ねこ,neko,cat,noun,N5,animals\n" +
		"食べる,たべる,taberu,to eat,verb,n5,verbs\n" +
		",,,,,,\n" +
		"犬,いぬ,inu,,noun,N5,animals\n" +
		"猫,ねこ,neko,cat,noun,N5,animals\n" +
		"速い,はやい,hayai,fast,adjective,N9,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	res, err := ImportVocabulary(DefaultImportConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 5, res.TotalProcessed)
	require.Len(t, res.Words, 2)
	assert.Equal(t, "猫", res.Words[0].Word)
	assert.Equal(t, "N5", res.Words[1].JLPT)
	assert.Equal(t, "import-n5-2", res.Words[1].ID)
	assert.Len(t, res.Errors, 2) // missing meaning, bad JLPT
	assert.Equal(t, 3, res.Skipped)
}

func TestImportVocabularyExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")

	f := excelize.NewFile()
	rows := [][]string{
		{"Word", "Reading", "Romaji", "Meaning", "Part of speech", "JLPT", "Category"},
		{"水", "みず", "mizu", "water", "noun", "N5", "nature"},
		{"行く", "いく", "iku", "to go", "verb", "N5", "verbs"},
	}
	for r, row := range rows {
		for c, v := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	res, err := ImportVocabulary(DefaultImportConfig(path))
	require.NoError(t, err)
	require.Len(t, res.Words, 2)
	assert.Equal(t, "to go", res.Words[1].Meaning)
	assert.Equal(t, "verb", res.Words[1].PartOfSpeech)
	assert.Empty(t, res.Errors)
}

func TestImportVocabularyUnsupported(t *testing.T) {
	_, err := ImportVocabulary(DefaultImportConfig("words.txt"))
	assert.Error(t, err)
}
