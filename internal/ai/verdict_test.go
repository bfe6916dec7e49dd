package ai

import (
	"errors"
	"testing"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

func TestParseJudgment_Fenced(t *testing.T) {
	in := "Sure! Here is my ruling:\n```json\n{\"defense_argument\": \"The client was elsewhere.\", \"verdict\": \"Not Guilty\", \"score\": 30, \"judicial_reasoning\": \"Alibi holds.\"}\n```\nHope this helps."
	j, err := ParseJudgment(in)
	if err != nil {
		t.Fatalf("ParseJudgment: %v", err)
	}
	if j.Verdict != domain.VerdictNotGuilty || j.Score != 30 || j.DefenseArgument != "The client was elsewhere." || j.Reasoning != "Alibi holds." {
		t.Fatalf("judgment = %+v", j)
	}
	if j.Fallback {
		t.Fatalf("parsed judgment must not be a fallback")
	}
}

func TestParseJudgment_NestedBracesUseOutermost(t *testing.T) {
	in := `prefix {"defense_argument": "see {exhibit}", "verdict": "guilty", "score": "72.6", "judicial_reasoning": "x"} suffix`
	j, err := ParseJudgment(in)
	if err != nil {
		t.Fatalf("ParseJudgment: %v", err)
	}
	if j.Verdict != domain.VerdictGuilty || j.Score != 73 || j.DefenseArgument != "see {exhibit}" {
		t.Fatalf("judgment = %+v", j)
	}
}

func TestParseJudgment_ClampsScore(t *testing.T) {
	for in, want := range map[string]int{
		`{"defense_argument":"d","verdict":"Guilty","score":140}`:  100,
		`{"defense_argument":"d","verdict":"Guilty","score":-3}`:   0,
		`{"defense_argument":"d","verdict":"Mistrial","score":50}`: 50,
	} {
		j, err := ParseJudgment(in)
		if err != nil {
			t.Fatalf("ParseJudgment(%s): %v", in, err)
		}
		if j.Score != want {
			t.Fatalf("score = %d; want %d", j.Score, want)
		}
	}
}

func TestParseJudgment_Malformed(t *testing.T) {
	cases := []string{
		"",
		"no json here",
		"} backwards {",
		`{"defense_argument": "d", "verdict": "Guilty"}`,
		`{"defense_argument": "d", "verdict": "Guilty", "score": null}`,
		`{"defense_argument": "d", "verdict": "Maybe", "score": 10}`,
		`{"defense_argument": "d", "verdict": "Guilty", "score": "high"}`,
		`{"verdict": "Guilty", "score": 10}`,
		`{"defense_argument": "d", "verdict": "Guilty", "score": 10,}`,
	}
	for _, in := range cases {
		if _, err := ParseJudgment(in); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("ParseJudgment(%q) err = %v; want ErrMalformedResponse", in, err)
		}
	}
}

func TestParseJudgment_EmptyDefenseKeepsScore(t *testing.T) {
	j, err := ParseJudgment(`{"defense_argument": "  ", "verdict": "Guilty", "score": 64, "judicial_reasoning": "Unrebutted."}`)
	if err != nil {
		t.Fatalf("ParseJudgment: %v", err)
	}
	if j.Fallback || j.Score != 64 || j.Verdict != domain.VerdictGuilty || j.DefenseArgument != "" {
		t.Fatalf("judgment = %+v", j)
	}
}

func TestNormalizeVerdict(t *testing.T) {
	cases := map[string]domain.Verdict{
		"Guilty":      domain.VerdictGuilty,
		" GUILTY ":    domain.VerdictGuilty,
		"Not Guilty":  domain.VerdictNotGuilty,
		"not_guilty":  domain.VerdictNotGuilty,
		"not-guilty":  domain.VerdictNotGuilty,
		"NotGuilty":   domain.VerdictNotGuilty,
		"innocent":    domain.VerdictNotGuilty,
		"Mistrial":    domain.VerdictMistrial,
		"not  guilty": domain.VerdictNotGuilty,
	}
	for in, want := range cases {
		got, ok := NormalizeVerdict(in)
		if !ok || got != want {
			t.Fatalf("NormalizeVerdict(%q) = %q,%v; want %q", in, got, ok, want)
		}
	}
	if _, ok := NormalizeVerdict("hung jury"); ok {
		t.Fatalf("unexpected ok for unknown verdict")
	}
}

func TestExtractJSONObject(t *testing.T) {
	got, ok := ExtractJSONObject("```json\n{\"a\":1}\n```")
	if !ok || got != `{"a":1}` {
		t.Fatalf("ExtractJSONObject = %q,%v", got, ok)
	}
	if _, ok := ExtractJSONObject("{ only open"); ok {
		t.Fatalf("expected no object")
	}
}
