// Package config loads schema and config-data YAML (spec §6.2) into the
// structs the engine pipeline, speller, key binder and switcher consume.
// Turning schema YAML into those structs is in scope; the generic
// include/patch merging compiler that resolves cross-file dependencies is
// not — schemas here are loaded one file at a time, already merged by
// whatever upstream compilation step produced them.
package config

// EngineConfig names the pipeline components a schema wires together, in
// the order each stage runs (spec §4.J).
type EngineConfig struct {
	Processors  []string `yaml:"processors"`
	Segmentors  []string `yaml:"segmentors"`
	Translators []string `yaml:"translators"`
	Filters     []string `yaml:"filters,omitempty"`
	Formatters  []string `yaml:"formatters,omitempty"`
}

// SpellerConfig configures the speller component (spec §4.M).
type SpellerConfig struct {
	Alphabet          string `yaml:"alphabet,omitempty"`
	Initials          string `yaml:"initials,omitempty"`
	Finals            string `yaml:"finals,omitempty"`
	Delimiters        string `yaml:"delimiters,omitempty"`
	MaxCodeLength     int      `yaml:"max_code_length,omitempty"`
	AutoSelect        bool     `yaml:"auto_select,omitempty"`
	AutoSelectPattern string   `yaml:"auto_select_pattern,omitempty"`
	Algebra           []string `yaml:"algebra,omitempty"`
}

// KeyBindingRule is one key_binder rule: `accept`, when matched under
// `when`, either sends a different key, toggles/sets/unsets an option, or
// selects a candidate (spec §4.M).
type KeyBindingRule struct {
	When        string `yaml:"when"`
	Accept      string `yaml:"accept"`
	Send        string `yaml:"send,omitempty"`
	Toggle      string `yaml:"toggle,omitempty"`
	SetOption   string `yaml:"set_option,omitempty"`
	UnsetOption string `yaml:"unset_option,omitempty"`
	Select      string `yaml:"select,omitempty"`
}

// KeyBinderConfig is the full set of key_binder rules for a schema.
type KeyBinderConfig struct {
	Bindings []KeyBindingRule `yaml:"bindings"`
}

// SwitchConfig is one switcher entry: either a single named boolean option
// (Name is the option, States has its two display labels) or a
// multi-state radio group (Options/States have matching length > 1).
type SwitchConfig struct {
	Name    string   `yaml:"name,omitempty"`
	Options []string `yaml:"options,omitempty"`
	States  []string `yaml:"states,omitempty"`
	Reset   int      `yaml:"reset,omitempty"`
}

// MenuConfig controls candidate paging (spec §4.J).
type MenuConfig struct {
	PageSize      int  `yaml:"page_size,omitempty"`
	PageDownCycle bool `yaml:"page_down_cycle,omitempty"`
}

// TranslatorConfig names the dictionary and user-dictionary a schema's
// table/user-dict translators draw from, and the dict compiler's source
// inputs (spec §4.H): `translator/dictionary` resolves to `<name>.dict.yaml`
// plus any files it lists under `import_tables`.
type TranslatorConfig struct {
	Dictionary       string   `yaml:"dictionary,omitempty"`
	UserDict         string   `yaml:"user_dict,omitempty"`
	ImportTables     []string `yaml:"import_tables,omitempty"`
	EnableCompletion bool     `yaml:"enable_completion,omitempty"`
}

// SchemaConfig is the decoded form of a schema YAML document (spec §6.2):
// `schema/schema_id`, `engine/{processors,segmentors,translators,filters}`,
// and the optional speller/key_binder/punctuator/switches/menu sections.
type SchemaConfig struct {
	Schema struct {
		SchemaID string `yaml:"schema_id"`
		Name     string `yaml:"name,omitempty"`
		Version  string `yaml:"version,omitempty"`
	} `yaml:"schema"`

	Engine     EngineConfig      `yaml:"engine"`
	Speller    *SpellerConfig    `yaml:"speller,omitempty"`
	Translator *TranslatorConfig `yaml:"translator,omitempty"`
	KeyBinder  *KeyBinderConfig  `yaml:"key_binder,omitempty"`
	Punctuator map[string]any    `yaml:"punctuator,omitempty"`
	Switches   []SwitchConfig    `yaml:"switches,omitempty"`
	Menu       MenuConfig        `yaml:"menu,omitempty"`
}
