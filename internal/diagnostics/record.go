package diagnostics

import "github.com/google/uuid"

// Record is the structured form of a diagnostic exposed to tooling
// (reports, IDE inspections). One Record per DiagnosticError.
type Record struct {
	ID       string   `yaml:"id"`
	Code     string   `yaml:"code"`
	Severity string   `yaml:"severity"`
	File     string   `yaml:"file"`
	Line     int      `yaml:"line"`
	Column   int      `yaml:"column"`
	Message  string   `yaml:"message"`
	Types    []string `yaml:"types,omitempty"`
}

// ToRecord converts a diagnostic into its structured record, minting a
// fresh record id.
func (e *DiagnosticError) ToRecord() Record {
	file := e.Token.File
	if file == "" {
		file = e.File
	}
	return Record{
		ID:       uuid.NewString(),
		Code:     string(e.Code),
		Severity: e.Severity.String(),
		File:     file,
		Line:     e.Token.Line,
		Column:   e.Token.Column,
		Message:  e.Message,
		Types:    e.Types,
	}
}
