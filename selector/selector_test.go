package selector

import "testing"

func TestCompileAndEvalEquality(t *testing.T) {
	expr, err := Compile(`extension == ".csv"`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	env := MapEnv{"extension": ".csv"}
	if !expr.Eval(env) {
		t.Error("expected match for .csv")
	}
	env["extension"] = ".json"
	if expr.Eval(env) {
		t.Error("expected no match for .json")
	}
}

func TestCompileAndEvalConjunction(t *testing.T) {
	expr, err := Compile(`extension == ".csv" && suffix == "data"`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !expr.Eval(MapEnv{"extension": ".csv", "suffix": "data"}) {
		t.Error("expected both clauses to pass")
	}
	if expr.Eval(MapEnv{"extension": ".csv", "suffix": "other"}) {
		t.Error("expected failure when suffix mismatches")
	}
}

func TestCompileAndEvalDisjunctionAndNegation(t *testing.T) {
	expr, err := Compile(`baseDir == "data" || baseDir != "sourcedata"`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !expr.Eval(MapEnv{"baseDir": "data"}) {
		t.Error("expected disjunction to pass")
	}
}

func TestCompileAndEvalIn(t *testing.T) {
	expr, err := Compile(`"task" in keywords`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !expr.Eval(MapEnv{"keywords": map[string]string{"task": "x"}}) {
		t.Error("expected membership match")
	}
	if expr.Eval(MapEnv{"keywords": map[string]string{"session": "x"}}) {
		t.Error("expected no membership match")
	}
}

func TestCompileRejectsTrailingInput(t *testing.T) {
	if _, err := Compile(`extension == ".csv" )`); err == nil {
		t.Error("expected a parse error for unbalanced input")
	}
}
