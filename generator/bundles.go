// This file assembles one tag group's artifacts from the rendered pieces:
// the declaration pool, the accessor file, the hook file, the orchestrator,
// and the barrel.

package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studiographene/SGSchemaSync/config"
	"github.com/studiographene/SGSchemaSync/parser"
)

// groupArtifacts is the rendered output of one tag group.
type groupArtifacts struct {
	Types  string
	API    string
	Hooks  string
	Client string
	Index  string

	HasHooks bool
	// Degraded counts operations whose generic defaults fell back.
	Degraded int
}

// assembleGroup resolves types and renders every artifact for one group.
// Operations are processed strictly in the group's fixed order so that
// name reservation stays deterministic.
//
// schemaOwners maps each schema-scoped declaration name to the group that
// emitted it. The first group to reference a component schema owns its
// declaration; later groups import it from the owner's declaration file.
func assembleGroup(reg *NameRegistry, group *TagGroup, cfg *config.Config, corpus map[string]*parser.Schema, schemaOwners map[string]string, addIssue addIssueFunc, log parser.Logger) *groupArtifacts {
	art := &groupArtifacts{}

	var types strings.Builder
	var apiBody strings.Builder
	var hooksBody strings.Builder
	apiTypes := make(map[string]struct{})
	hookTypes := make(map[string]struct{})
	typeImports := make(map[string]map[string]struct{})
	var factories []string
	var hookFactories []string
	var wrappedFactories []string
	usesQuery, usesMutation := false, false

	for _, op := range group.Operations {
		ts := resolveOperationTypes(reg, op, corpus, addIssue, log)
		if ts.Degraded() {
			art.Degraded++
		}
		types.WriteString(ts.TypesSource)

		for _, name := range ts.SchemaRefs {
			owner, claimed := schemaOwners[name]
			if !claimed {
				schemaOwners[name] = group.SanitizedTag
				continue
			}
			if owner == group.SanitizedTag {
				continue
			}
			if typeImports[owner] == nil {
				typeImports[owner] = make(map[string]struct{})
			}
			typeImports[owner][name] = struct{}{}
		}

		acc := renderAccessorFactory(op, ts, cfg.PathPrefix)
		apiBody.WriteString(acc.Source)
		for _, name := range acc.UsedTypes {
			apiTypes[name] = struct{}{}
		}
		factories = append(factories, "make"+op.Stem)

		if !cfg.HooksEnabled() {
			continue
		}
		hook, ok := renderHookFactory(op, ts, group.SanitizedTag)
		if !ok {
			continue
		}
		hooksBody.WriteString(hook.Source)
		for _, name := range hook.UsedTypes {
			hookTypes[name] = struct{}{}
		}
		hookFactories = append(hookFactories, "makeUse"+op.Stem)
		wrappedFactories = append(wrappedFactories, hook.Factory)
		usesQuery = usesQuery || hook.UsesQuery
		usesMutation = usesMutation || hook.UsesMutation
	}

	art.HasHooks = len(hookFactories) > 0
	group.HasHooks = art.HasHooks

	art.Types = renderTypesFile(group, typeImports, types.String())
	art.API = renderAPIFile(apiTypes, apiBody.String())
	if art.HasHooks {
		art.Hooks = renderHooksFile(hookTypes, wrappedFactories, usesQuery, usesMutation, hooksBody.String())
	}
	art.Client = renderClientFile(group, cfg, factories, hookFactories)
	art.Index = renderIndexFile(art.HasHooks)

	log.Debug("assembled group",
		"tag", group.SanitizedTag,
		"operations", len(group.Operations),
		"hooks", len(hookFactories),
		"degraded", art.Degraded)

	return art
}

// renderTypesFile renders one group's declaration file. Declarations owned
// by an earlier group are imported from that group's file instead of being
// re-declared, so shared component schemas resolve to a single declaration.
func renderTypesFile(group *TagGroup, typeImports map[string]map[string]struct{}, body string) string {
	var b strings.Builder
	b.WriteString(generatedHeader)

	owners := make([]string, 0, len(typeImports))
	for owner := range typeImports {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	for _, owner := range owners {
		b.WriteString(typeImportLine(typeImports[owner], "../"+owner+"/types"))
	}
	if len(owners) > 0 {
		b.WriteString("\n")
	}

	if strings.TrimSpace(body) == "" && len(owners) == 0 {
		fmt.Fprintf(&b, "// No declarations for tag %q.\nexport {};\n", group.Tag)
		return b.String()
	}
	b.WriteString(body)
	return b.String()
}

// typeImportLine renders one sorted named type import, or "" when the set
// is empty.
func typeImportLine(names map[string]struct{}, from string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return fmt.Sprintf("import type { %s } from %q;\n", strings.Join(sorted, ", "), from)
}

func renderAPIFile(usedTypes map[string]struct{}, body string) string {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("import type { RequestDescriptor, RequestFlags, Requester } from \"../requester\";\n")
	b.WriteString(typeImportLine(usedTypes, "./types"))
	b.WriteString("\n")
	b.WriteString(body)
	return b.String()
}

// renderHooksFile renders the hook bundle. Only accessor factories that a
// hook actually wraps are imported; operations outside both hook shapes
// contribute nothing here.
func renderHooksFile(usedTypes map[string]struct{}, factories []string, usesQuery, usesMutation bool, body string) string {
	var value, types []string
	if usesMutation {
		value = append(value, "useMutation")
		types = append(types, "UseMutationOptions")
	}
	if usesQuery {
		value = append(value, "useQuery")
		types = append(types, "UseQueryOptions")
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "import { %s } from \"@tanstack/react-query\";\n", strings.Join(value, ", "))
	fmt.Fprintf(&b, "import type { %s } from \"@tanstack/react-query\";\n", strings.Join(types, ", "))
	b.WriteString("import type { Requester } from \"../requester\";\n")
	fmt.Fprintf(&b, "import { %s } from \"./api\";\n", strings.Join(factories, ", "))
	b.WriteString(typeImportLine(usedTypes, "./types"))
	b.WriteString("\n")
	b.WriteString(body)
	return b.String()
}

// renderClientFile renders the orchestrator: it wires the configured
// requester into every factory and exports the bound results. This file is
// always overwritten.
func renderClientFile(group *TagGroup, cfg *config.Config, factories, hookFactories []string) string {
	var b strings.Builder
	b.WriteString(generatedHeader)

	if cfg.Requester.Mode == config.RequesterModeCustom {
		fmt.Fprintf(&b, "import { customRequester as requester } from %q;\n", cfg.Requester.Module)
	} else {
		b.WriteString("import { defaultRequester as requester } from \"../requester\";\n")
	}
	if len(factories) > 0 {
		fmt.Fprintf(&b, "import { %s } from \"./api\";\n", strings.Join(factories, ", "))
	}
	if len(hookFactories) > 0 {
		fmt.Fprintf(&b, "import { %s } from \"./hooks\";\n", strings.Join(hookFactories, ", "))
	}
	b.WriteString("\n")

	for _, op := range group.Operations {
		fmt.Fprintf(&b, "export const %s = make%s(requester);\n", toExportName(op.Stem), op.Stem)
	}
	if len(hookFactories) > 0 {
		b.WriteString("\n")
		for _, name := range hookFactories {
			stem := strings.TrimPrefix(name, "makeUse")
			fmt.Fprintf(&b, "export const use%s = %s(requester);\n", stem, name)
		}
	}
	return b.String()
}

func renderIndexFile(hasHooks bool) string {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("export * from \"./types\";\n")
	b.WriteString("export * from \"./api\";\n")
	if hasHooks {
		b.WriteString("export * from \"./hooks\";\n")
	}
	b.WriteString("export * from \"./client\";\n")
	return b.String()
}
