// Package highlight produces syntax-highlight spans for the visible part of a
// buffer and caches them until an edit touches the parsed region.
package highlight

import "strings"

// Category is the semantic class of a highlighted span. Colors are resolved
// from a Theme at paint time.
type Category uint8

// Highlight categories.
const (
	CategoryNone Category = iota
	CategoryComment
	CategoryString
	CategoryEscape
	CategoryNumber
	CategoryConstant
	CategoryKeyword
	CategoryOperator
	CategoryFunction
	CategoryType
	CategoryVariable
	CategoryProperty
	CategoryPunctuation
	CategoryTag
	CategoryAttribute

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryNone:        "none",
	CategoryComment:     "comment",
	CategoryString:      "string",
	CategoryEscape:      "escape",
	CategoryNumber:      "number",
	CategoryConstant:    "constant",
	CategoryKeyword:     "keyword",
	CategoryOperator:    "operator",
	CategoryFunction:    "function",
	CategoryType:        "type",
	CategoryVariable:    "variable",
	CategoryProperty:    "property",
	CategoryPunctuation: "punctuation",
	CategoryTag:         "tag",
	CategoryAttribute:   "attribute",
}

// String returns the category name.
func (c Category) String() string {
	if c < categoryCount {
		return categoryNames[c]
	}
	return "unknown"
}

// scopeCategories maps TextMate scope prefixes to categories. The longest
// matching dotted prefix wins.
var scopeCategories = map[string]Category{
	"comment":                     CategoryComment,
	"string":                      CategoryString,
	"constant.character.escape":   CategoryEscape,
	"constant.numeric":            CategoryNumber,
	"constant":                    CategoryConstant,
	"keyword.operator":            CategoryOperator,
	"keyword":                     CategoryKeyword,
	"storage.type":                CategoryType,
	"storage":                     CategoryKeyword,
	"entity.name.function":        CategoryFunction,
	"support.function":            CategoryFunction,
	"variable.function":           CategoryFunction,
	"entity.name.type":            CategoryType,
	"entity.name.class":           CategoryType,
	"support.type":                CategoryType,
	"support.class":               CategoryType,
	"support.type.property-name":  CategoryProperty,
	"variable.other.property":     CategoryProperty,
	"entity.name.tag":             CategoryTag,
	"entity.other.attribute-name": CategoryAttribute,
	"variable":                    CategoryVariable,
	"punctuation":                 CategoryPunctuation,
}

// captureCategories maps tree-sitter capture names to categories.
var captureCategories = map[string]Category{
	"comment":          CategoryComment,
	"string":           CategoryString,
	"character":        CategoryString,
	"string.escape":    CategoryEscape,
	"escape":           CategoryEscape,
	"number":           CategoryNumber,
	"float":            CategoryNumber,
	"boolean":          CategoryConstant,
	"constant":         CategoryConstant,
	"keyword":          CategoryKeyword,
	"conditional":      CategoryKeyword,
	"repeat":           CategoryKeyword,
	"include":          CategoryKeyword,
	"operator":         CategoryOperator,
	"function":         CategoryFunction,
	"method":           CategoryFunction,
	"constructor":      CategoryType,
	"type":             CategoryType,
	"variable":         CategoryVariable,
	"parameter":        CategoryVariable,
	"property":         CategoryProperty,
	"field":            CategoryProperty,
	"punctuation":      CategoryPunctuation,
	"tag":              CategoryTag,
	"attribute":        CategoryAttribute,
	"variable.member":  CategoryProperty,
	"function.builtin": CategoryFunction,
}

// CategoryForScope resolves a TextMate scope such as
// "comment.line.double-slash.go". A scope entry may hold several
// space-separated scopes; the last one that resolves wins.
func CategoryForScope(scope string) (Category, bool) {
	fields := strings.Fields(scope)
	for i := len(fields) - 1; i >= 0; i-- {
		if c, ok := lookupPrefix(scopeCategories, fields[i]); ok {
			return c, true
		}
	}
	return CategoryNone, false
}

// CategoryForCapture resolves a tree-sitter capture name such as
// "function.method" or "@keyword".
func CategoryForCapture(capture string) (Category, bool) {
	return lookupPrefix(captureCategories, strings.TrimPrefix(capture, "@"))
}

// ScopeStackCategory walks scopes from innermost (last) to outermost and
// returns the first one that maps to a category.
func ScopeStackCategory(scopes []string) (Category, bool) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if c, ok := CategoryForScope(scopes[i]); ok {
			return c, true
		}
	}
	return CategoryNone, false
}

func lookupPrefix(table map[string]Category, name string) (Category, bool) {
	for name != "" {
		if c, ok := table[name]; ok {
			return c, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return CategoryNone, false
}
