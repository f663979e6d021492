package content

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sensei-learn/backend/internal/models"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// GetContent serves one of the static tables by kind.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	q := r.URL.Query()

	switch kind {
	case "hiragana", "katakana":
		writeJSON(w, http.StatusOK, KanaByScript(models.ScriptType(kind), q.Get("dakuten") != "false"))
	case "kanji":
		writeJSON(w, http.StatusOK, Kanjis)
	case "grammar":
		writeJSON(w, http.StatusOK, GrammarTopics)
	case "vocabulary":
		level := q.Get("jlpt")
		if level != "" && !ValidJLPT(level) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "jlpt must be one of N5, N4, N3, N2, N1"})
			return
		}
		words := VocabularyByLevel(level)
		if cat := q.Get("category"); cat != "" {
			var filtered []VocabularyWord
			for _, word := range words {
				if word.Category == cat {
					filtered = append(filtered, word)
				}
			}
			words = filtered
		}
		if words == nil {
			words = []VocabularyWord{}
		}
		writeJSON(w, http.StatusOK, words)
	default:
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Unknown content kind"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
