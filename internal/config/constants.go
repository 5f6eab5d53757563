package config

// ConfigFileName is the per-project configuration file the CLI looks for.
const ConfigFileName = "optbridge.yaml"

// Built-in type names
const (
	OptionalTypeName = "Opt"
	NilTypeName      = "Nil"
)

// Accessor method names on the optional wrapper.
const (
	// ExtractOrNullName is the total extraction: returns the value or the
	// null sentinel, never fails. The coercion rewrite calls this.
	ExtractOrNullName = "getOrNull"
	// ExtractOrThrowName is the partial extraction: returns the value or
	// fails when absent. Never inserted implicitly.
	ExtractOrThrowName = "get"
)
