package parsers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopmate-poc/server/internal/agent/model"
	errx "github.com/shopmate-poc/server/internal/core/error"
	logx "github.com/shopmate-poc/server/pkg/logger"
)

const (
	recDelim = "##"
	tupDelim = "<||>"
	endDelim = "<|COMPLETE|>"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxRecords    = 100       // maximum number of records to process
	maxTupleLen   = 4 * 1024  // 4KB per tuple
	maxErrSnippet = 200       // limit error snippet size
)

var knownCategories = map[string]bool{
	model.IssueUngroundedPrice:    true,
	model.IssueUngroundedDiscount: true,
	model.IssueUnknownProduct:     true,
	model.IssueUnknownStore:       true,
	model.IssueUnverifiedDelivery: true,
	model.IssueMissingCheck:       true,
}

type rawTuple struct {
	Type  string
	Parts []string
}

func parseRawTuple(s string) (*rawTuple, error) {
	if s == "" {
		return nil, fmt.Errorf("empty tuple")
	}
	// enforce a sane upper bound per record
	if len(s) > maxTupleLen {
		return nil, fmt.Errorf("tuple too large")
	}

	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("invalid tuple parens")
	}
	// remove the outermost parens only
	inner := s[1 : len(s)-1]
	// limit splitting to at most 4 segments so notes can contain delimiters
	parts := strings.SplitN(inner, tupDelim, 4)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid tuple parts")
	}
	return &rawTuple{Type: strings.TrimSpace(parts[0]), Parts: parts}, nil
}

func mustValidUTF8(s string, name string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s invalid utf8", name)
	}
	return nil
}

func parseConfidence(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("confidence parse: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
		return 0, fmt.Errorf("confidence out of range")
	}
	return v, nil
}

// ParseCritique converts the critic model's delimited output into a Critique.
// Records look like:
//
//	(verdict<||>revise<||>0.9)##
//	(issue<||>ungrounded_discount<||>SAVE10<||>code absent from check_discounts result)##
//	<|COMPLETE|>
//
// The parser fails open: when no valid verdict record survives, the draft is
// approved, because a broken critic must never eat a good answer.
func ParseCritique(content string) (crit *model.Critique, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "critique_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("critique parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			crit = nil
		}
	}()

	// content length guard
	truncated := false
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "critique_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
		truncated = true
	}
	// honor completion delimiter if present
	if idx := strings.Index(content, endDelim); idx >= 0 {
		content = content[:idx]
	}

	crit = &model.Critique{
		Verdict:         model.VerdictApprove,
		Confidence:      0,
		Issues:          []model.CritiqueIssue{},
		ParsingMetadata: map[string]any{},
		Timestamp:       time.Now().UTC(),
	}

	addErr := func(msg string) {
		v, _ := crit.ParsingMetadata["parsing_errors"].([]string)
		v = append(v, msg)
		crit.ParsingMetadata["parsing_errors"] = v
	}

	if truncated {
		crit.ParsingMetadata["truncated"] = true
	}

	sawVerdict := false
	records := strings.Split(content, recDelim)
	processed := 0
	for _, rec := range records {
		if processed >= maxRecords {
			crit.ParsingMetadata["records_capped"] = true
			logx.Warn().
				Str("component", "critique_parser").
				Int("max_records", maxRecords).
				Msg("record processing capped")
			break
		}
		rec = strings.TrimSpace(rec)
		if rec == "" || rec == endDelim {
			continue
		}
		processed++

		rt, rerr := parseRawTuple(rec)
		if rerr != nil {
			addErr(fmt.Sprintf("bad_record: %s", safeSnippet(rec)))
			continue
		}

		switch rt.Type {
		case "verdict":
			if len(rt.Parts) < 3 {
				addErr("verdict: insufficient parts")
				continue
			}
			v := strings.ToLower(strings.TrimSpace(rt.Parts[1]))
			if v != model.VerdictApprove && v != model.VerdictRevise {
				addErr(fmt.Sprintf("verdict: unknown value %s", safeSnippet(v)))
				continue
			}
			conf, cerr := parseConfidence(rt.Parts[2])
			if cerr != nil {
				addErr("verdict: invalid confidence")
				continue
			}
			// last valid verdict wins
			crit.Verdict = v
			crit.Confidence = conf
			sawVerdict = true

		case "issue":
			if len(rt.Parts) < 3 {
				addErr("issue: insufficient parts")
				continue
			}
			category := strings.ToLower(strings.TrimSpace(rt.Parts[1]))
			if !knownCategories[category] {
				addErr(fmt.Sprintf("issue: unknown category %s", safeSnippet(category)))
				continue
			}
			claim := strings.TrimSpace(rt.Parts[2])
			if err := mustValidUTF8(claim, "issue.claim"); err != nil || claim == "" {
				addErr("issue: invalid claim utf8")
				continue
			}
			note := ""
			if len(rt.Parts) >= 4 {
				note = strings.TrimSpace(rt.Parts[3])
				if mustValidUTF8(note, "issue.note") != nil {
					addErr("issue: invalid note utf8")
					note = ""
				}
			}
			crit.Issues = append(crit.Issues, model.CritiqueIssue{
				Category: category,
				Claim:    claim,
				Note:     note,
			})

		default:
			// ignore unknown type but record a hint
			addErr("unknown tuple type")
		}
	}

	if !sawVerdict {
		crit.ParsingMetadata["verdict_defaulted"] = true
	}
	// issues without a revise verdict are advisory only; a revise verdict
	// without issues gives the response model nothing to fix
	if crit.Verdict == model.VerdictRevise && len(crit.Issues) == 0 {
		crit.Verdict = model.VerdictApprove
		crit.ParsingMetadata["revise_without_issues"] = true
	}

	return crit, nil
}

// --- helpers ---

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
