package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/editgram/internal/editgram"
)

// ruleDoc is the on-disk shape of one authored rule, the document format
// cmd/editgen reads rule maps from (TOML by default, --format json via
// encoding/json). This is the minimal stand-in for the rule-authoring DSL
// spec.md places out of scope: just enough fields to exercise every pass.
type ruleDoc struct {
	LHS               string            `toml:"lhs" json:"lhs"`
	RHS               []string          `toml:"rhs" json:"rhs"`
	Terminal          bool              `toml:"terminal" json:"terminal"`
	Cost              float64           `toml:"cost" json:"cost"`
	InsertionCost     *float64          `toml:"insertion_cost,omitempty" json:"insertion_cost,omitempty"`
	TranspositionCost *float64          `toml:"transposition_cost,omitempty" json:"transposition_cost,omitempty"`
	NoInsert          bool              `toml:"no_insert" json:"no_insert"`
	Text              string            `toml:"text" json:"text"`
	SemanticName      string            `toml:"semantic_name" json:"semantic_name"`
	SemanticIsArg     bool              `toml:"semantic_is_argument" json:"semantic_is_argument"`
	SemanticMinArity  int               `toml:"semantic_min_arity" json:"semantic_min_arity"`
	SemanticMaxArity  int               `toml:"semantic_max_arity" json:"semantic_max_arity"`
	SemanticIsReduced bool              `toml:"semantic_is_reduced" json:"semantic_is_reduced"`
	PersonNumber      string            `toml:"person_number" json:"person_number"`
}

// ruleMapDoc is the root document: just a flat list of rules, one per [[rule]]
// TOML table (or JSON array element).
type ruleMapDoc struct {
	Rule []ruleDoc `toml:"rule" json:"rule"`
}

func loadRuleMapDoc(path, format string) (ruleMapDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ruleMapDoc{}, fmt.Errorf("read %s: %w", path, err)
	}

	var doc ruleMapDoc
	switch format {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return ruleMapDoc{}, fmt.Errorf("parse %s as JSON: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return ruleMapDoc{}, fmt.Errorf("parse %s as TOML: %w", path, err)
		}
	}
	return doc, nil
}

func (doc ruleMapDoc) toRuleMap() (*editgram.RuleMap, error) {
	rm := editgram.NewRuleMap()
	for i, rd := range doc.Rule {
		if rd.LHS == "" {
			return nil, fmt.Errorf("rule %d: lhs is required", i)
		}
		if len(rd.RHS) == 0 {
			return nil, fmt.Errorf("rule %d (%s): rhs must have at least one symbol", i, rd.LHS)
		}

		r := editgram.NewRule(rd.LHS, rd.RHS...)
		r.IsTerminal = rd.Terminal
		r.Cost = rd.Cost
		r.InsertionCost = rd.InsertionCost
		r.TranspositionCost = rd.TranspositionCost
		r.NoInsert = rd.NoInsert
		r.PersonNumber = editgram.PersonNumber(rd.PersonNumber)
		if rd.Text != "" {
			r.Text = editgram.TextOf(rd.Text)
		}

		if rd.SemanticName != "" {
			var sem editgram.Semantic
			if rd.SemanticIsArg {
				sem = editgram.Arg(rd.SemanticName)
			} else {
				sem = editgram.Fn(rd.SemanticName, rd.Cost, rd.SemanticMinArity, rd.SemanticMaxArity)
			}
			r.Semantic = &sem
			r.SemanticIsReduced = rd.SemanticIsReduced || rd.SemanticIsArg
		}

		rm.AddRule(r)
	}
	return rm, nil
}

// dumpRuleMapDoc renders rm back into the flat document shape, for the CLI's
// default TOML/JSON output formats.
func dumpRuleMapDoc(rm *editgram.RuleMap) ruleMapDoc {
	var doc ruleMapDoc
	for _, sym := range rm.Symbols() {
		for _, r := range rm.Rules(sym) {
			rd := ruleDoc{
				LHS:               r.LHS,
				RHS:               r.RHS,
				Terminal:          r.IsTerminal,
				Cost:              r.Cost,
				InsertionCost:     r.InsertionCost,
				TranspositionCost: r.TranspositionCost,
				NoInsert:          r.NoInsert,
				Text:              textListSummary(r),
				SemanticIsReduced: r.SemanticIsReduced,
				PersonNumber:      string(r.PersonNumber),
			}
			if r.Semantic != nil {
				rd.SemanticName = r.Semantic.Name
				rd.SemanticIsArg = r.Semantic.Kind == editgram.SemanticArgument
				rd.SemanticMinArity = r.Semantic.MinArity
				rd.SemanticMaxArity = r.Semantic.MaxArity
			}
			doc.Rule = append(doc.Rule, rd)
		}
	}
	return doc
}

func textListSummary(r *editgram.Rule) string {
	var parts []string
	for _, e := range r.Text {
		if e.IsLiteral() {
			parts = append(parts, e.String())
		}
	}
	return strings.Join(parts, " ")
}

// encodeRuleMapDoc renders rm in the given output format ("toml" (default),
// "json", or "rezi").
func encodeRuleMapDoc(rm *editgram.RuleMap, format string) ([]byte, error) {
	doc := dumpRuleMapDoc(rm)

	switch format {
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode output: %w", err)
		}
		return out, nil
	case "rezi":
		return editgram.Encode(rm), nil
	default:
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(doc); err != nil {
			return nil, fmt.Errorf("encode output: %w", err)
		}
		return []byte(sb.String()), nil
	}
}

func writeRuleMapDoc(path, format string, rm *editgram.RuleMap) error {
	out, err := encodeRuleMapDoc(rm, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
