package analyses

import "fmt"

// Artifact is the structured analysis result produced by the pipeline.
// Field names mirror the JSON structure the generation model is prompted
// to return.
type Artifact struct {
	Metadata          DocumentMetadata `json:"metadata"`
	RiskScore         *float64         `json:"riskScore"`
	KeyClauses        []KeyClause      `json:"keyClauses"`
	NegotiableTerms   []NegotiableTerm `json:"negotiableTerms"`
	RedFlags          []RedFlag        `json:"redFlags"`
	Recommendations   []string         `json:"recommendations"`
	OverallImpression Impression       `json:"overallImpression"`
}

// DocumentMetadata describes the analyzed document as the model read it.
type DocumentMetadata struct {
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Status  string   `json:"status"`
	Parties []string `json:"parties"`
	Dates   []string `json:"dates,omitempty"`
	Value   *string  `json:"value,omitempty"`
}

// KeyClause is one clause the model singled out for attention.
type KeyClause struct {
	Title          string  `json:"title"`
	Section        string  `json:"section"`
	Text           string  `json:"text"`
	Importance     string  `json:"importance"`
	Analysis       string  `json:"analysis"`
	Recommendation *string `json:"recommendation,omitempty"`
}

// NegotiableTerm is a term the model judged open to negotiation.
type NegotiableTerm struct {
	Term       string `json:"term"`
	Rationale  string `json:"rationale"`
	Suggestion string `json:"suggestion"`
}

// RedFlag is a problem the model flagged in the document.
type RedFlag struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"`
	Location    *string `json:"location,omitempty"`
}

// Impression is the model's overall assessment. Summary is required;
// the remaining fields are optional color.
type Impression struct {
	Summary    string   `json:"summary"`
	Pros       []string `json:"pros,omitempty"`
	Cons       []string `json:"cons,omitempty"`
	Conclusion string   `json:"conclusion,omitempty"`
}

// Validate checks the artifact against the required analysis shape.
// It reports the first missing or out-of-range field.
func (a *Artifact) Validate() error {
	if a.Metadata.Title == "" {
		return fmt.Errorf("metadata.title required")
	}
	if a.Metadata.Type == "" {
		return fmt.Errorf("metadata.type required")
	}
	if a.Metadata.Status == "" {
		return fmt.Errorf("metadata.status required")
	}
	if a.Metadata.Parties == nil {
		return fmt.Errorf("metadata.parties required")
	}
	if a.RiskScore == nil {
		return fmt.Errorf("riskScore required")
	}
	if *a.RiskScore < 0 || *a.RiskScore > 100 {
		return fmt.Errorf("riskScore out of range: %f", *a.RiskScore)
	}
	if a.KeyClauses == nil {
		return fmt.Errorf("keyClauses required")
	}
	for i, c := range a.KeyClauses {
		if err := c.validate(); err != nil {
			return fmt.Errorf("keyClauses[%d]: %w", i, err)
		}
	}
	if a.NegotiableTerms == nil {
		return fmt.Errorf("negotiableTerms required")
	}
	for i, t := range a.NegotiableTerms {
		if t.Term == "" {
			return fmt.Errorf("negotiableTerms[%d]: term required", i)
		}
	}
	if a.RedFlags == nil {
		return fmt.Errorf("redFlags required")
	}
	for i, f := range a.RedFlags {
		if err := f.validate(); err != nil {
			return fmt.Errorf("redFlags[%d]: %w", i, err)
		}
	}
	if a.Recommendations == nil {
		return fmt.Errorf("recommendations required")
	}
	if a.OverallImpression.Summary == "" {
		return fmt.Errorf("overallImpression.summary required")
	}
	return nil
}

func (c KeyClause) validate() error {
	if c.Title == "" {
		return fmt.Errorf("title required")
	}
	if c.Section == "" {
		return fmt.Errorf("section required")
	}
	if c.Text == "" {
		return fmt.Errorf("text required")
	}
	if c.Importance == "" {
		return fmt.Errorf("importance required")
	}
	if c.Analysis == "" {
		return fmt.Errorf("analysis required")
	}
	return nil
}

func (f RedFlag) validate() error {
	if f.Title == "" {
		return fmt.Errorf("title required")
	}
	if f.Description == "" {
		return fmt.Errorf("description required")
	}
	if f.Severity == "" {
		return fmt.Errorf("severity required")
	}
	return nil
}
