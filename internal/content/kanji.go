package content

// Kanji is one kanji with its readings. JLPT is metadata only.
type Kanji struct {
	Character string   `json:"character"`
	Meaning   string   `json:"meaning"`
	Onyomi    []string `json:"onyomi"`
	Kunyomi   []string `json:"kunyomi"`
	Strokes   int      `json:"strokes"`
	JLPT      string   `json:"jlpt"`
}

// Reading is the reading asked for in reading questions: the first kun'yomi,
// or the first on'yomi when the kanji has none.
func (k Kanji) Reading() string {
	if len(k.Kunyomi) > 0 {
		return k.Kunyomi[0]
	}
	if len(k.Onyomi) > 0 {
		return k.Onyomi[0]
	}
	return ""
}

func n5(char, meaning string, strokes int, on, kun []string) Kanji {
	return Kanji{Character: char, Meaning: meaning, Onyomi: on, Kunyomi: kun, Strokes: strokes, JLPT: "N5"}
}

var Kanjis = []Kanji{
	n5("一", "one", 1, []string{"いち"}, []string{"ひと"}),
	n5("二", "two", 2, []string{"に"}, []string{"ふた"}),
	n5("三", "three", 3, []string{"さん"}, []string{"みっ"}),
	n5("四", "four", 5, []string{"し"}, []string{"よん"}),
	n5("五", "five", 4, []string{"ご"}, []string{"いつ"}),
	n5("六", "six", 4, []string{"ろく"}, []string{"むっ"}),
	n5("七", "seven", 2, []string{"しち"}, []string{"なな"}),
	n5("八", "eight", 2, []string{"はち"}, []string{"やっ"}),
	n5("九", "nine", 2, []string{"きゅう"}, []string{"ここの"}),
	n5("十", "ten", 2, []string{"じゅう"}, []string{"とお"}),
	n5("百", "hundred", 6, []string{"ひゃく"}, nil),
	n5("千", "thousand", 3, []string{"せん"}, []string{"ち"}),
	n5("万", "ten thousand", 3, []string{"まん"}, nil),
	n5("日", "day, sun", 4, []string{"にち"}, []string{"ひ"}),
	n5("月", "month, moon", 4, []string{"げつ"}, []string{"つき"}),
	n5("火", "fire", 4, []string{"か"}, []string{"ひ"}),
	n5("水", "water", 4, []string{"すい"}, []string{"みず"}),
	n5("木", "tree, wood", 4, []string{"もく"}, []string{"き"}),
	n5("金", "gold, money", 8, []string{"きん"}, []string{"かね"}),
	n5("土", "earth, soil", 3, []string{"ど"}, []string{"つち"}),
	n5("人", "person", 2, []string{"じん"}, []string{"ひと"}),
	n5("山", "mountain", 3, []string{"さん"}, []string{"やま"}),
	n5("川", "river", 3, []string{"せん"}, []string{"かわ"}),
	n5("大", "big", 3, []string{"だい"}, []string{"おお"}),
	n5("小", "small", 3, []string{"しょう"}, []string{"ちい"}),
	n5("中", "middle, inside", 4, []string{"ちゅう"}, []string{"なか"}),
	n5("上", "up, above", 3, []string{"じょう"}, []string{"うえ"}),
	n5("下", "down, below", 3, []string{"か"}, []string{"した"}),
	n5("口", "mouth", 3, []string{"こう"}, []string{"くち"}),
	n5("目", "eye", 5, []string{"もく"}, []string{"め"}),
	n5("耳", "ear", 6, []string{"じ"}, []string{"みみ"}),
	n5("手", "hand", 4, []string{"しゅ"}, []string{"て"}),
	n5("足", "foot, leg", 7, []string{"そく"}, []string{"あし"}),
	n5("年", "year", 6, []string{"ねん"}, []string{"とし"}),
	n5("本", "book, origin", 5, []string{"ほん"}, []string{"もと"}),
	n5("学", "study", 8, []string{"がく"}, []string{"まな"}),
	n5("生", "life, birth", 5, []string{"せい"}, []string{"い"}),
	n5("先", "ahead, previous", 6, []string{"せん"}, []string{"さき"}),
	n5("名", "name", 6, []string{"めい"}, []string{"な"}),
	n5("男", "man", 7, []string{"だん"}, []string{"おとこ"}),
	n5("女", "woman", 3, []string{"じょ"}, []string{"おんな"}),
	n5("子", "child", 3, []string{"し"}, []string{"こ"}),
	n5("時", "time, hour", 10, []string{"じ"}, []string{"とき"}),
	n5("今", "now", 4, []string{"こん"}, []string{"いま"}),
	n5("雨", "rain", 8, []string{"う"}, []string{"あめ"}),
}

// FindKanji looks up a kanji by character.
func FindKanji(character string) (Kanji, bool) {
	for _, k := range Kanjis {
		if k.Character == character {
			return k, true
		}
	}
	return Kanji{}, false
}
