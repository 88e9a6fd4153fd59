package classync

// CompatibleMode selects how the engine behaves when peer and local field
// sets disagree.
type CompatibleMode int

const (
	// Strict requires the peer ClassDef to match the local descriptor set
	// exactly; any mismatch is a schema-mismatch error.
	Strict CompatibleMode = iota
	// ForwardBackward engages consolidation (§4.3.1): added/removed
	// fields are tolerated, extra local fields keep their zero value and
	// extra peer fields are skipped.
	ForwardBackward
)

// Config mirrors the "Configuration recognized" table in §6.
type Config struct {
	CompatibleMode CompatibleMode
	MetaShareEnabled bool
	// CheckClassVersion must be false whenever MetaShareEnabled and
	// CompatibleMode == ForwardBackward are both set (§6 invariant).
	CheckClassVersion bool
	CompressInts      bool
	CompressLongs     bool
	TrackRefsForBasicTypes bool
	CodeGenEnabled         bool

	// AllowHierarchyMigration resolves §9's open question: when set, a
	// slot whose wire-class precedes the local slot's class (the class
	// moved "down" the hierarchy) is tolerated instead of being treated
	// as a fatal schema-mismatch. Default false.
	AllowHierarchyMigration bool
}

// Validate enforces the one cross-field invariant the configuration table
// calls out explicitly.
func (c Config) Validate() error {
	if c.MetaShareEnabled && c.CompatibleMode == ForwardBackward && c.CheckClassVersion {
		return errf(KindSchemaMismatch, "check_class_version must be false when meta_share_enabled and compatible_mode=forward-backward are both set")
	}
	return nil
}

// GroupingOptions projects the three grouping-relevant flags out of Config.
func (c Config) GroupingOptions() GroupingOptions {
	return GroupingOptions{
		TrackRefsForBasics: c.TrackRefsForBasicTypes,
		CompressInts:       c.CompressInts,
		CompressLongs:      c.CompressLongs,
	}
}
