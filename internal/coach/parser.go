package coach

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/sensei-learn/backend/internal/models"
)

const adviceSchemaURL = "schema://coach-advice.json"

const adviceSchemaJSON = `{
  "type": "object",
  "required": ["greeting", "analysis", "recommendations", "motivationalQuote"],
  "properties": {
    "greeting": {"type": "string", "minLength": 1},
    "analysis": {"type": "string", "minLength": 1},
    "recommendations": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "motivationalQuote": {"type": "string"}
  }
}`

var (
	adviceSchemaOnce sync.Once
	adviceSchema     *jsonschema.Schema
	adviceSchemaErr  error
)

func compiledAdviceSchema() (*jsonschema.Schema, error) {
	adviceSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(adviceSchemaJSON), &def); err != nil {
			adviceSchemaErr = fmt.Errorf("parse advice schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(adviceSchemaURL, def); err != nil {
			adviceSchemaErr = fmt.Errorf("add advice schema: %w", err)
			return
		}
		adviceSchema, adviceSchemaErr = c.Compile(adviceSchemaURL)
	})
	return adviceSchema, adviceSchemaErr
}

// ParseAdvice pulls the advice object out of a model reply. Models often
// wrap JSON in code fences or chat around it, so only the outermost
// braces are kept. At most three recommendations are returned.
func ParseAdvice(responseBody string) (*models.CoachAdvice, error) {
	raw, err := extractObject(stripCodeFences(responseBody))
	if err != nil {
		return nil, &ErrInvalidResponse{Content: responseBody, Err: err}
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &ErrInvalidResponse{Content: responseBody, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledAdviceSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ErrInvalidResponse{Content: responseBody, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var advice models.CoachAdvice
	if err := json.Unmarshal([]byte(raw), &advice); err != nil {
		return nil, &ErrInvalidResponse{Content: responseBody, Err: err}
	}
	if len(advice.Recommendations) > 3 {
		advice.Recommendations = advice.Recommendations[:3]
	}
	return &advice, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func extractObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object in response")
	}
	return s[start : end+1], nil
}
