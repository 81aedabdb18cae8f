package engine

import (
	"regexp"
	"strings"

	"github.com/hupe1980/roundtable/core"
)

// mentionPattern matches @-prefixed candidate model keys. Candidates are
// validated against the catalog afterwards, so the pattern itself stays
// permissive.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// ResolveResponders determines which models answer a turn. Content is scanned
// for @mentions against the catalog (case-insensitive, de-duplicated, order of
// first appearance). If any mentioned model is also active, the responder set
// is exactly the mentioned-and-active models in mention order. Otherwise every
// active model responds in its configured order. Active keys missing from the
// catalog are skipped. An empty result is a valid turn with zero responses.
func ResolveResponders(catalog core.Catalog, content string, activeModels []string) []core.ModelDescriptor {
	active := make(map[string]bool, len(activeModels))
	for _, key := range activeModels {
		active[strings.ToLower(key)] = true
	}

	var mentioned []core.ModelDescriptor
	seen := make(map[string]bool)
	for _, match := range mentionPattern.FindAllStringSubmatch(content, -1) {
		md, ok := catalog.Lookup(match[1])
		if !ok || seen[md.Key] {
			continue
		}
		seen[md.Key] = true
		if active[md.Key] {
			mentioned = append(mentioned, md)
		}
	}
	if len(mentioned) > 0 {
		return mentioned
	}

	responders := make([]core.ModelDescriptor, 0, len(activeModels))
	for _, key := range activeModels {
		if md, ok := catalog.Lookup(key); ok {
			responders = append(responders, md)
		}
	}
	return responders
}
