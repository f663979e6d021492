package content

import "github.com/sensei-learn/backend/internal/models"

// Kana is one hiragana or katakana character.
type Kana struct {
	Character string `json:"character"`
	Romaji    string `json:"romaji"`
	Row       string `json:"row"`
	Dakuten   bool   `json:"dakuten,omitempty"`
}

type kanaRow struct {
	name   string
	chars  string
	romaji []string
}

var basicRows = []kanaRow{
	{"vowels", "あいうえお", []string{"a", "i", "u", "e", "o"}},
	{"k-row", "かきくけこ", []string{"ka", "ki", "ku", "ke", "ko"}},
	{"s-row", "さしすせそ", []string{"sa", "shi", "su", "se", "so"}},
	{"t-row", "たちつてと", []string{"ta", "chi", "tsu", "te", "to"}},
	{"n-row", "なにぬねの", []string{"na", "ni", "nu", "ne", "no"}},
	{"h-row", "はひふへほ", []string{"ha", "hi", "fu", "he", "ho"}},
	{"m-row", "まみむめも", []string{"ma", "mi", "mu", "me", "mo"}},
	{"y-row", "やゆよ", []string{"ya", "yu", "yo"}},
	{"r-row", "らりるれろ", []string{"ra", "ri", "ru", "re", "ro"}},
	{"w-row", "わを", []string{"wa", "wo"}},
	{"n", "ん", []string{"n"}},
}

// ぢ and づ share their romaji with じ and ず.
var dakutenRows = []kanaRow{
	{"g-row", "がぎぐげご", []string{"ga", "gi", "gu", "ge", "go"}},
	{"z-row", "ざじずぜぞ", []string{"za", "ji", "zu", "ze", "zo"}},
	{"d-row", "だぢづでど", []string{"da", "ji", "zu", "de", "do"}},
	{"b-row", "ばびぶべぼ", []string{"ba", "bi", "bu", "be", "bo"}},
	{"p-row", "ぱぴぷぺぽ", []string{"pa", "pi", "pu", "pe", "po"}},
}

// hiraganaToKatakana is the fixed code point distance between the two syllabaries.
const hiraganaToKatakana = 0x60

func buildKana(rows []kanaRow, katakana, dakuten bool) []Kana {
	var out []Kana
	for _, row := range rows {
		for i, r := range []rune(row.chars) {
			if katakana {
				r += hiraganaToKatakana
			}
			out = append(out, Kana{Character: string(r), Romaji: row.romaji[i], Row: row.name, Dakuten: dakuten})
		}
	}
	return out
}

var (
	Hiragana        = buildKana(basicRows, false, false)
	HiraganaDakuten = buildKana(dakutenRows, false, true)
	Katakana        = buildKana(basicRows, true, false)
	KatakanaDakuten = buildKana(dakutenRows, true, true)
)

// KanaByScript returns the basic set, optionally followed by the dakuten set.
func KanaByScript(script models.ScriptType, withDakuten bool) []Kana {
	var basic, extra []Kana
	switch script {
	case models.ScriptHiragana:
		basic, extra = Hiragana, HiraganaDakuten
	case models.ScriptKatakana:
		basic, extra = Katakana, KatakanaDakuten
	default:
		return nil
	}
	out := append([]Kana{}, basic...)
	if withDakuten {
		out = append(out, extra...)
	}
	return out
}

// FindKana looks up a character in the full set of a script.
func FindKana(script models.ScriptType, character string) (Kana, bool) {
	for _, k := range KanaByScript(script, true) {
		if k.Character == character {
			return k, true
		}
	}
	return Kana{}, false
}
