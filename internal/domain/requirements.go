package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// RawTextSampleLimit bounds the raw-text sample kept in the requirements bag
// for audit/debugging.
const RawTextSampleLimit = 2000

// ParsedFields is the structured output of the LLM field extraction.
type ParsedFields struct {
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Skills           []string `json:"skills"`
	Seniority        string   `json:"seniority"`
	EmploymentType   string   `json:"employment_type"`
	Category         string   `json:"category"`
}

// JobRequirements is the additive attribute bag on a Job. Known fields are
// typed; unknown keys written by other services round-trip through Extra so
// the bag stays forward-compatible.
//
// Merge rules: scalar fields are replaced only by non-empty values; the
// resumeFileIds/resumeIds lists are set-unioned, never truncated.
type JobRequirements struct {
	Summary          string
	Responsibilities []string
	Skills           []string
	Seniority        string
	EmploymentType   string
	Category         string
	ResumeFileIDs    []string
	ResumeIDs        []string

	// Provenance stamps
	ParsedWith    string
	ParsedAt      *time.Time
	RawTextSample string

	Extra map[string]json.RawMessage
}

var requirementsKnownKeys = map[string]bool{
	"summary":          true,
	"responsibilities": true,
	"skills":           true,
	"seniority":        true,
	"employmentType":   true,
	"category":         true,
	"resumeFileIds":    true,
	"resumeIds":        true,
	"parsedWith":       true,
	"parsedAt":         true,
	"rawTextSample":    true,
}

// MarshalJSON flattens known fields and Extra into one JSON object.
func (r JobRequirements) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+11)
	for k, v := range r.Extra {
		if !requirementsKnownKeys[k] {
			out[k] = v
		}
	}
	if r.Summary != "" {
		out["summary"] = r.Summary
	}
	if len(r.Responsibilities) > 0 {
		out["responsibilities"] = r.Responsibilities
	}
	if len(r.Skills) > 0 {
		out["skills"] = r.Skills
	}
	if r.Seniority != "" {
		out["seniority"] = r.Seniority
	}
	if r.EmploymentType != "" {
		out["employmentType"] = r.EmploymentType
	}
	if r.Category != "" {
		out["category"] = r.Category
	}
	if len(r.ResumeFileIDs) > 0 {
		out["resumeFileIds"] = r.ResumeFileIDs
	}
	if len(r.ResumeIDs) > 0 {
		out["resumeIds"] = r.ResumeIDs
	}
	if r.ParsedWith != "" {
		out["parsedWith"] = r.ParsedWith
	}
	if r.ParsedAt != nil {
		out["parsedAt"] = r.ParsedAt
	}
	if r.RawTextSample != "" {
		out["rawTextSample"] = r.RawTextSample
	}
	return json.Marshal(out)
}

// UnmarshalJSON pulls known keys into typed fields and keeps the rest in Extra.
func (r *JobRequirements) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = JobRequirements{}
	for k, v := range raw {
		var err error
		switch k {
		case "summary":
			err = json.Unmarshal(v, &r.Summary)
		case "responsibilities":
			err = json.Unmarshal(v, &r.Responsibilities)
		case "skills":
			err = json.Unmarshal(v, &r.Skills)
		case "seniority":
			err = json.Unmarshal(v, &r.Seniority)
		case "employmentType":
			err = json.Unmarshal(v, &r.EmploymentType)
		case "category":
			err = json.Unmarshal(v, &r.Category)
		case "resumeFileIds":
			err = json.Unmarshal(v, &r.ResumeFileIDs)
		case "resumeIds":
			err = json.Unmarshal(v, &r.ResumeIDs)
		case "parsedWith":
			err = json.Unmarshal(v, &r.ParsedWith)
		case "parsedAt":
			err = json.Unmarshal(v, &r.ParsedAt)
		case "rawTextSample":
			err = json.Unmarshal(v, &r.RawTextSample)
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]json.RawMessage)
			}
			r.Extra[k] = v
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MergeParsed returns a copy of the bag with non-empty parsed fields applied
// and provenance stamped. Pure function of its inputs: merging the same fields
// with the same timestamp twice yields the same bag as merging once.
func (r JobRequirements) MergeParsed(p ParsedFields, rawText, model string, now time.Time) JobRequirements {
	out := r.clone()
	if p.Summary != "" {
		out.Summary = p.Summary
	}
	if len(p.Responsibilities) > 0 {
		out.Responsibilities = append([]string(nil), p.Responsibilities...)
	}
	if len(p.Skills) > 0 {
		out.Skills = append([]string(nil), p.Skills...)
	}
	if p.Seniority != "" {
		out.Seniority = p.Seniority
	}
	if p.EmploymentType != "" {
		out.EmploymentType = p.EmploymentType
	}
	if p.Category != "" {
		out.Category = p.Category
	}
	out.ParsedWith = model
	t := now.UTC().Truncate(time.Second)
	out.ParsedAt = &t
	sample := rawText
	// Truncate on rune boundaries so the stored sample stays valid UTF-8.
	if runes := []rune(sample); len(runes) > RawTextSampleLimit {
		sample = string(runes[:RawTextSampleLimit])
	}
	out.RawTextSample = sample
	return out
}

// AttachFiles returns a copy of the bag with the given file/resume ids
// set-unioned into the attachment lists.
func (r JobRequirements) AttachFiles(fileIDs, resumeIDs []string) JobRequirements {
	out := r.clone()
	out.ResumeFileIDs = unionStrings(out.ResumeFileIDs, fileIDs)
	out.ResumeIDs = unionStrings(out.ResumeIDs, resumeIDs)
	return out
}

func (r JobRequirements) clone() JobRequirements {
	out := r
	out.Responsibilities = append([]string(nil), r.Responsibilities...)
	out.Skills = append([]string(nil), r.Skills...)
	out.ResumeFileIDs = append([]string(nil), r.ResumeFileIDs...)
	out.ResumeIDs = append([]string(nil), r.ResumeIDs...)
	if r.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// unionStrings merges two id lists without duplicates. Output is sorted so the
// merge result is deterministic regardless of input order.
func unionStrings(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range a {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
