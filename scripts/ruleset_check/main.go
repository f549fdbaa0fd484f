package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/sma-grading-api/internal/rulesets"
	"github.com/noah-isme/sma-grading-api/internal/validation"
)

type testCase struct {
	Name       string                `json:"name"`
	RuleSet    string                `json:"ruleset"`
	ExceptID   string                `json:"except_id"`
	Submission validation.Submission `json:"submission"`
	Expect     []string              `json:"expect"`
}

type fixture struct {
	Cases []testCase `json:"cases"`
}

type result struct {
	Case     testCase
	Got      []validation.FieldError
	Match    bool
	Error    error
	Duration time.Duration
}

// referencesExist answers every lookup positively so rule sets can be checked offline.
type referencesExist struct{}

func (referencesExist) Exists(ctx context.Context, table, column string, value interface{}) (bool, error) {
	return true, nil
}

func (referencesExist) IsUnique(ctx context.Context, table, column string, value interface{}, exceptID string) (bool, error) {
	return true, nil
}

func main() {
	var (
		casesPath  string
		rulesetDir string
		offline    bool
		workers    int
	)

	flag.StringVar(&casesPath, "cases", filepath.Join("scripts", "ruleset_check", "cases.json"), "Path to JSON cases file")
	flag.StringVar(&rulesetDir, "rulesets", "", "Directory of YAML rule sets (defaults to the embedded ones)")
	flag.BoolVar(&offline, "assume-references", true, "Treat every exists/unique lookup as satisfied")
	flag.IntVar(&workers, "workers", 4, "Concurrent rows per collection")
	flag.Parse()

	cases, err := loadCases(casesPath)
	if err != nil {
		log.Fatalf("failed to load cases: %v", err)
	}

	registry, err := loadRegistry(rulesetDir)
	if err != nil {
		log.Fatalf("failed to load rule sets: %v", err)
	}

	var lookup validation.Lookup
	if offline {
		lookup = referencesExist{}
	}
	engine := validation.NewEngine(lookup, nil, workers)

	var results []result
	failed := 0
	for _, tc := range cases {
		res := runCase(engine, registry, tc)
		if res.Error != nil || !res.Match {
			failed++
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Cases: %d, Failed: %d\n", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadCases(path string) ([]testCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, err
	}
	if len(fx.Cases) == 0 {
		return nil, fmt.Errorf("no cases defined in %s", path)
	}
	return fx.Cases, nil
}

func loadRegistry(dir string) (*rulesets.Registry, error) {
	if dir == "" {
		return rulesets.Default()
	}
	return rulesets.Load(os.DirFS(dir), ".")
}

func runCase(engine *validation.Engine, registry *rulesets.Registry, tc testCase) result {
	res := result{Case: tc}
	rs, err := registry.Get(tc.RuleSet)
	if err != nil {
		res.Error = err
		return res
	}
	start := time.Now()
	outcome := engine.Validate(context.Background(), rs.Bind(map[string]string{"except_id": tc.ExceptID}), tc.Submission)
	res.Duration = time.Since(start)
	res.Got = outcome.Errors
	res.Match = sameFields(outcome.Errors, tc.Expect)
	return res
}

// sameFields compares reported field paths with the expected ones, ignoring order.
func sameFields(got []validation.FieldError, expect []string) bool {
	paths := make([]string, len(got))
	for i, fe := range got {
		paths[i] = fe.Field
	}
	want := append([]string(nil), expect...)
	sort.Strings(paths)
	sort.Strings(want)
	return strings.Join(paths, ",") == strings.Join(want, ",")
}

func printReport(results []result) {
	fmt.Println("Rule set check report")
	fmt.Println("=====================")
	for _, res := range results {
		status := "PASS"
		if res.Error != nil || !res.Match {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s (%s) in %s\n", status, res.Case.Name, res.Case.RuleSet, res.Duration)
		if res.Error != nil {
			fmt.Printf("    error: %v\n", res.Error)
			continue
		}
		if !res.Match {
			fmt.Printf("    expected fields: %v\n", res.Case.Expect)
			for _, fe := range res.Got {
				fmt.Printf("    got %s %s: %s\n", fe.Field, fe.Kind, fe.Message)
			}
		}
	}
}
