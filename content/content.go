// Package content implements the Content Rule Engine: walking the schema
// once per file to find selector-gated content rules, dispatching the
// columnsMatchMetadata/fields checks, and running the schema.org
// @type/slot/range checks against the compiled sidecar.
package content

import (
	"sort"
	"strings"

	"github.com/psych-ds/psychds-validator/filectx"
	"github.com/psych-ds/psychds-validator/internal/suggest"
	"github.com/psych-ds/psychds-validator/issues"
	"github.com/psych-ds/psychds-validator/schema"
	"github.com/psych-ds/psychds-validator/selector"
)

const schemaOrgPrefix = "https://schema.org/"

// Run walks schemaDoc's full tree looking for content-rule nodes (any
// object carrying a "selectors" list), evaluates their selectors against
// ctx, and for every rule that fires dispatches columnsMatchMetadata and
// fields checks. It also runs the schema.org term/type checks once, since
// those apply dataset-wide rather than per content rule.
func Run(schemaDoc schema.Accessor, ctx *filectx.Context, store *issues.Store) {
	env := buildEnv(ctx)

	schemaDoc.WalkRules("rules", func(path string, kind schema.NodeKind, node schema.Accessor) {
		if kind != schema.NodeContentRule {
			return
		}
		if !selectorsPass(node, env) {
			return
		}
		if node.Get("columnsMatchMetadata").IsPresent() {
			checkColumnsMatchMetadata(ctx, path, store)
		}
		if fields := node.Get("fields").Map(); fields != nil {
			checkFields(node, fields, ctx, path, store)
		}
	})

	checkSchemaOrgType(schemaDoc, ctx, store)
	checkSchemaOrgProperties(schemaDoc, ctx, store)
}

func buildEnv(ctx *filectx.Context) selector.MapEnv {
	return selector.MapEnv{
		"extension": ctx.Extension,
		"suffix":    ctx.Suffix,
		"baseDir":   ctx.BaseDir,
		"keywords":  ctx.Keywords,
	}
}

// compiledSelectors caches each selector source's parsed Expr, so a
// selector is tokenized and parsed once rather than once per file.
var compiledSelectors = map[string]selector.Expr{}

func selectorsPass(node schema.Accessor, env selector.MapEnv) bool {
	selectors := node.Get("selectors").StringSlice()
	for _, src := range selectors {
		expr, ok := compiledSelectors[src]
		if !ok {
			var err error
			expr, err = selector.Compile(src)
			if err != nil {
				return false
			}
			compiledSelectors[src] = expr
		}
		if !expr.Eval(env) {
			return false
		}
	}
	return len(selectors) > 0
}

func checkColumnsMatchMetadata(ctx *filectx.Context, rulePath string, store *issues.Store) {
	if ctx.Extension != ".csv" {
		return
	}
	valid := make(map[string]bool, len(ctx.ValidColumns))
	for _, c := range ctx.ValidColumns {
		valid[c] = true
	}

	var missing []string
	for header := range ctx.Columns {
		if !valid[header] {
			missing = append(missing, header)
		}
	}
	if len(missing) == 0 {
		return
	}
	sort.Strings(missing)
	store.AddSchemaIssue("CSV_COLUMN_MISSING", []issues.FileEvidence{
		{Path: ctx.Path(), Name: ctx.Filename(), Evidence: strings.Join(missing, ", ") + " (rule " + rulePath + ")"},
	})
}

func checkFields(node schema.Accessor, fields map[string]interface{}, ctx *filectx.Context, rulePath string, store *issues.Store) {
	namespace := node.Get("namespace").String()

	var missingRequired []string
	for key, raw := range fields {
		level, addendum := fieldRequirement(raw)
		if addendum != "" {
			level = resolveAddendum(ctx, addendum, level)
		}
		if level != "required" {
			continue
		}
		qualified := namespace + key
		if ctx.Sidecar.Get(qualified).IsPresent() {
			continue
		}
		missingRequired = append(missingRequired, qualified)
	}

	if len(missingRequired) == 0 {
		return
	}
	sort.Strings(missingRequired)
	store.AddSchemaIssue("JSON_KEY_REQUIRED", []issues.FileEvidence{
		{Path: ctx.Path(), Name: ctx.Filename(), Evidence: strings.Join(missingRequired, ", ") + " (rule " + rulePath + ")"},
	})
}

// fieldRequirement normalizes a fields.<key> entry, which is either a bare
// level string or an object with level/level_addendum.
func fieldRequirement(raw interface{}) (level string, addendum string) {
	switch v := raw.(type) {
	case string:
		return v, ""
	case map[string]interface{}:
		l, _ := v["level"].(string)
		a, _ := v["level_addendum"].(string)
		return l, a
	default:
		return "", ""
	}
}

// resolveAddendum parses "required if `k` is `v`" and upgrades level to
// "required" when the sidecar's k equals v, otherwise leaves level as-is.
func resolveAddendum(ctx *filectx.Context, addendum, level string) string {
	const marker = "` is `"
	start := strings.Index(addendum, "`")
	if start < 0 {
		return level
	}
	rest := addendum[start+1:]
	mid := strings.Index(rest, marker)
	if mid < 0 {
		return level
	}
	key := rest[:mid]
	rest = rest[mid+len(marker):]
	end := strings.Index(rest, "`")
	if end < 0 {
		return level
	}
	want := rest[:end]

	if ctx.Sidecar.Get(schemaOrgPrefix+key).String() == want {
		return "required"
	}
	return level
}

func checkSchemaOrgType(schemaDoc schema.Accessor, ctx *filectx.Context, store *issues.Store) {
	typeVal := ctx.Sidecar.Get("@type")
	types := typeVal.StringSlice()
	if len(types) == 0 {
		store.AddSchemaIssue("MISSING_DATASET_TYPE", []issues.FileEvidence{
			{Path: ctx.Path(), Name: ctx.Filename()},
		})
		return
	}
	if types[0] != schemaOrgPrefix+"Dataset" {
		store.AddSchemaIssue("INCORRECT_DATASET_TYPE", []issues.FileEvidence{
			{Path: ctx.Path(), Name: ctx.Filename(), Evidence: types[0]},
		})
	}
}

func checkSchemaOrgProperties(schemaDoc schema.Accessor, ctx *filectx.Context, store *issues.Store) {
	root := ctx.Sidecar.Root()
	if root == nil {
		return
	}
	enclosingType := "Dataset"
	if types := ctx.Sidecar.Get("@type").StringSlice(); len(types) > 0 {
		enclosingType = strings.TrimPrefix(types[0], schemaOrgPrefix)
	}

	var unknownNamespace, termIssues, typeMissing, typeIssue []string

	for key, value := range root {
		if strings.HasPrefix(key, "@") {
			continue
		}
		if !strings.HasPrefix(key, schemaOrgPrefix) {
			unknownNamespace = append(unknownNamespace, key)
			continue
		}
		property := strings.TrimPrefix(key, schemaOrgPrefix)
		if !isSlotOf(schemaDoc, enclosingType, property) {
			termIssues = append(termIssues, property)
			continue
		}
		inspectValue(schemaDoc, property, value, ctx, &typeMissing, &typeIssue)
	}

	emitAggregated(store, ctx, "UNKNOWN_NAMESPACE", unknownNamespace)
	emitAggregated(store, ctx, "TERM_ISSUE", termIssues)
	emitAggregated(store, ctx, "TYPE_MISSING", typeMissing)
	emitAggregated(store, ctx, "TYPE_ISSUE", typeIssue)
}

func inspectValue(schemaDoc schema.Accessor, property string, value interface{}, ctx *filectx.Context, typeMissing, typeIssue *[]string) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	if _, hasID := obj["@id"]; hasID {
		return
	}
	if _, hasValue := obj["@value"]; hasValue {
		return
	}

	typeNode, hasType := obj["@type"]
	if !hasType {
		*typeMissing = append(*typeMissing, property)
		return
	}
	typeName, _ := typeNode.(string)
	if typeName == "Text" || typeName == "URL" {
		return
	}

	permitted := permittedRange(schemaDoc, property)
	if len(permitted) > 0 && !permitted[typeName] {
		*typeIssue = append(*typeIssue, property+"="+typeName)
	}
}

// permittedRange returns the set of types a slot may hold: its declared
// range plus any_of ranges, each expanded with all schema.org subclasses.
func permittedRange(schemaDoc schema.Accessor, property string) map[string]bool {
	slot := schemaDoc.Sub("schemaOrg.slots." + property)
	if slot.Root() == nil {
		return nil
	}

	out := make(map[string]bool)
	for _, class := range slot.Get("range").StringSlice() {
		addWithSubclasses(schemaDoc, out, class)
	}
	for _, variant := range slot.Get("any_of").StringSlice() {
		addWithSubclasses(schemaDoc, out, variant)
	}
	return out
}

func addWithSubclasses(schemaDoc schema.Accessor, out map[string]bool, class string) {
	if class == "" {
		return
	}
	visited := make(map[string]bool)
	var walk func(string)
	walk = func(c string) {
		if visited[c] {
			return
		}
		visited[c] = true
		out[c] = true
		schemaDoc.WalkRules("schemaOrg.classes", func(path string, kind schema.NodeKind, node schema.Accessor) {
			if node.Get("is_a").String() == c {
				walk(lastSegment(path))
			}
		})
	}
	walk(class)
}

// isSlotOf reports whether property is a slot of class, transitively via
// is_a ancestors, guarded against cycles by a visited set.
func isSlotOf(schemaDoc schema.Accessor, class, property string) bool {
	visited := make(map[string]bool)
	for c := class; c != "" && !visited[c]; {
		visited[c] = true
		node := schemaDoc.Sub("schemaOrg.classes." + c)
		if node.Root() == nil {
			return false
		}
		for _, slot := range node.Get("slots").StringSlice() {
			if slot == property {
				return true
			}
		}
		c = node.Get("is_a").String()
	}
	return false
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

func emitAggregated(store *issues.Store, ctx *filectx.Context, code string, items []string) {
	if len(items) == 0 {
		return
	}
	sort.Strings(items)
	evidence := strings.Join(items, ", ")
	var suggestion string
	if code == "UNKNOWN_NAMESPACE" || code == "TERM_ISSUE" {
		if s, ok := suggestSlot(items[0]); ok {
			suggestion = s
		}
	}
	store.AddSchemaIssue(code, []issues.FileEvidence{
		{Path: ctx.Path(), Name: ctx.Filename(), Evidence: evidence, Suggestion: suggestion},
	})
}

// knownSlots is the slot-name candidate list suggestSlot ranks against,
// set by SetKnownSlots; while it is empty suggestSlot returns no suggestion.
var knownSlots []string

func suggestSlot(term string) (string, bool) {
	if len(knownSlots) == 0 {
		return "", false
	}
	result := suggest.Suggest(term, knownSlots, suggest.DefaultSuggestOptions())
	if len(result) == 0 {
		return "", false
	}
	return result[0].Value, true
}

// SetKnownSlots configures the candidate list used for UnknownNamespace/
// termIssue "did you mean" suggestions. Call once after loading the schema.
func SetKnownSlots(slots []string) {
	knownSlots = slots
}
