package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

// judgmentWire is the object the judge prompt asks the model to emit.
type judgmentWire struct {
	DefenseArgument   *string         `json:"defense_argument"`
	Verdict           string          `json:"verdict"`
	Score             json.RawMessage `json:"score"`
	JudicialReasoning string          `json:"judicial_reasoning"`
}

// ExtractJSONObject strips markdown fences and returns the text between the
// first '{' and the last '}'.
func ExtractJSONObject(text string) (string, bool) {
	s := strings.ReplaceAll(text, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// ParseJudgment decodes a judge response. Any deviation from the expected
// shape yields ErrMalformedResponse; callers turn that into a fallback.
func ParseJudgment(text string) (Judgment, error) {
	obj, ok := ExtractJSONObject(text)
	if !ok {
		return Judgment{}, fmt.Errorf("%w: no JSON object", ErrMalformedResponse)
	}
	var w judgmentWire
	if err := json.Unmarshal([]byte(obj), &w); err != nil {
		return Judgment{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	verdict, ok := NormalizeVerdict(w.Verdict)
	if !ok {
		return Judgment{}, fmt.Errorf("%w: verdict %q", ErrMalformedResponse, w.Verdict)
	}
	score, err := parseScore(w.Score)
	if err != nil {
		return Judgment{}, err
	}
	// An empty rebuttal still carries a usable verdict and score.
	if w.DefenseArgument == nil {
		return Judgment{}, fmt.Errorf("%w: missing defense_argument", ErrMalformedResponse)
	}
	return Judgment{
		DefenseArgument: strings.TrimSpace(*w.DefenseArgument),
		Verdict:         verdict,
		Score:           domain.ClampScore(score),
		Reasoning:       strings.TrimSpace(w.JudicialReasoning),
	}, nil
}

// NormalizeVerdict maps the spellings models produce onto Verdict values.
func NormalizeVerdict(s string) (domain.Verdict, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("_", " ", "-", " ").Replace(k)
	switch strings.Join(strings.Fields(k), " ") {
	case "guilty":
		return domain.VerdictGuilty, true
	case "not guilty", "notguilty", "innocent":
		return domain.VerdictNotGuilty, true
	case "mistrial":
		return domain.VerdictMistrial, true
	}
	return "", false
}

// parseScore accepts a JSON number or a numeric string and rounds fractions.
func parseScore(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: missing score", ErrMalformedResponse)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: score %s", ErrMalformedResponse, raw)
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: score %q", ErrMalformedResponse, s)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: score %v", ErrMalformedResponse, f)
	}
	return int(math.Round(f)), nil
}
