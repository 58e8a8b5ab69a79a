package discovery

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/utils"
)

// Option keys understood by the discoverer
const (
	OptionExcludes               = "splinter_excludes"
	OptionStrictMethodVisibility = "splinter_crash_when_injected_method_is_not_package"
	OptionDebug                  = "splinter_debug"
)

// Options configures a discovery pass
type Options struct {
	// Excludes are path.Match patterns checked against a class's qualified name and its
	// package path. A pattern ending in "/..." also matches every sub-package.
	Excludes []string
	// StrictMethodVisibility turns the exported-injected-method warning into an error
	StrictMethodVisibility bool
	// Debug adds a note diagnostic for every discovered artifact
	Debug bool
}

var optionValidators = map[string]utils.Validator[string]{
	OptionExcludes: func(value string) error {
		return utils.ValidateEach(OptionExcludes, utils.IsGlobPattern("pattern"))(splitPatterns(value))
	},
	OptionStrictMethodVisibility: utils.IsBool(OptionStrictMethodVisibility),
	OptionDebug:                  utils.IsBool(OptionDebug),
}

// ParseOptions reads discovery options from the host's key/value map. Unknown keys
// belong to other processors and are ignored.
func ParseOptions(raw map[string]string) (Options, error) {
	var options Options

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		validate, known := optionValidators[key]
		if !known {
			continue
		}
		value := strings.TrimSpace(raw[key])
		if err := validate(value); err != nil {
			return Options{}, errors.WrapConfigurationError(key, "parse", err)
		}

		switch key {
		case OptionExcludes:
			options.Excludes = splitPatterns(value)
		case OptionStrictMethodVisibility:
			options.StrictMethodVisibility, _ = strconv.ParseBool(value)
		case OptionDebug:
			options.Debug, _ = strconv.ParseBool(value)
		}
	}

	return options, nil
}

func splitPatterns(value string) []string {
	var patterns []string
	for _, pattern := range strings.Split(value, ",") {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	return patterns
}

// Excluded reports whether the class matches one of the exclusion patterns
func (o Options) Excluded(c *models.Class) bool {
	return o.excludes(c.QualifiedName(), c.Package)
}

func (o Options) excludes(qualifiedName, pkg string) bool {
	for _, pattern := range o.Excludes {
		if prefix, ok := strings.CutSuffix(pattern, "/..."); ok {
			if pkg == prefix || strings.HasPrefix(pkg, prefix+"/") {
				return true
			}
			continue
		}
		if matched, _ := path.Match(pattern, qualifiedName); matched {
			return true
		}
		if matched, _ := path.Match(pattern, pkg); matched {
			return true
		}
	}
	return false
}
