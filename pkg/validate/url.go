package validate

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/coolbeans/tweetext/pkg/pattern"
)

// URLOptions configures strict URL validation.
type URLOptions struct {
	// UnicodeDomains accepts unencoded internationalized hostnames. When
	// false the host must be ASCII (or punycoded by the caller).
	UnicodeDomains bool

	// RequireProtocol demands an explicit http or https scheme.
	RequireProtocol bool
}

// DefaultURLOptions returns the strict defaults: Unicode hosts allowed,
// protocol required.
func DefaultURLOptions() URLOptions {
	return URLOptions{UnicodeDomains: true, RequireProtocol: true}
}

// ValidURL reports whether the text is a single well-formed URL and nothing
// else. The text is split with an RFC 3986 Appendix-B style grammar anchored
// over the entire input, then each component must fully match its stricter
// sub-grammar; leftover characters in any component fail the check.
func (v *Validator) ValidURL(text string, opts ...URLOptions) (bool, error) {
	options := DefaultURLOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if text == "" {
		return false, nil
	}

	parts, err := v.patterns.ValidateURLUnencoded.FindStringMatch(text)
	if err != nil {
		return false, fmt.Errorf("matching failed: %w", err)
	}
	if parts == nil {
		return false, nil
	}

	scheme := pattern.GroupText(parts, 1)
	authority := pattern.GroupText(parts, 2)
	path := pattern.GroupText(parts, 3)
	queryPresent := pattern.GroupPresent(parts, 4)
	query := pattern.GroupText(parts, 4)
	fragmentPresent := pattern.GroupPresent(parts, 5)
	fragment := pattern.GroupText(parts, 5)

	if options.RequireProtocol {
		ok, err := componentMatch(v.patterns.ValidateURLScheme, scheme)
		if err != nil {
			return false, err
		}
		if !ok || !isHTTPScheme(scheme) {
			return false, nil
		}
	}

	if path != "" {
		ok, err := componentMatch(v.patterns.ValidateURLPath, path)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	ok, err := optionalComponentMatch(v.patterns.ValidateURLQuery, query, queryPresent)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	ok, err = optionalComponentMatch(v.patterns.ValidateURLFragment, fragment, fragmentPresent)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	authorityPattern := v.patterns.ValidateURLUnicodeAuthority
	if !options.UnicodeDomains {
		authorityPattern = v.patterns.ValidateURLAuthority
	}
	return componentMatch(authorityPattern, authority)
}

func isHTTPScheme(scheme string) bool {
	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

// componentMatch reports whether a required component is non-empty and fully
// matched by its (anchored) sub-grammar.
func componentMatch(re *regexp2.Regexp, component string) (bool, error) {
	if component == "" {
		return false, nil
	}
	ok, err := re.MatchString(component)
	if err != nil {
		return false, fmt.Errorf("matching failed: %w", err)
	}
	return ok, nil
}

// optionalComponentMatch is like componentMatch for components that may be
// absent or empty.
func optionalComponentMatch(re *regexp2.Regexp, component string, present bool) (bool, error) {
	if !present || component == "" {
		return true, nil
	}
	ok, err := re.MatchString(component)
	if err != nil {
		return false, fmt.Errorf("matching failed: %w", err)
	}
	return ok, nil
}
