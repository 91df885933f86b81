package constants

const (
	DefaultHashesPath = "/var/lib/css/hashes"
	DefaultRulesPath  = "/var/lib/css/yara_rules"

	BaselineHashesFile = "persistent_hashes.txt"
	VolatileHashesFile = "hashes.txt"

	// CommentMarker lines are never persisted to a hash cache.
	CommentMarker = "#"
)

var RuleExtensions = []string{".yar", ".yara"}
