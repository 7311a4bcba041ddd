package fsservice

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/elixir"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/hcl"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/scala"
	"github.com/smacker/go-tree-sitter/swift"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// languageLoader returns the tree-sitter grammar for one canonical language
// tag. A nil entry in the registry below means the tag is recognized (it
// appears in the alias table from §4.4) but no grammar binding is available
// in the dependency pack; such languages fail with UnsupportedLanguage
// rather than silently matching nothing, which is called out in DESIGN.md.
type languageLoader func() *sitter.Language

// languageRegistry maps each canonical tag from §4.4's dispatch list to its
// grammar loader.
var languageRegistry = map[string]languageLoader{
	"typescript": func() *sitter.Language { return typescript.GetLanguage() },
	"tsx":        func() *sitter.Language { return tsx.GetLanguage() },
	"javascript": func() *sitter.Language { return javascript.GetLanguage() },
	"python":     func() *sitter.Language { return python.GetLanguage() },
	"rust":       func() *sitter.Language { return rust.GetLanguage() },
	"go":         func() *sitter.Language { return golang.GetLanguage() },
	"java":       func() *sitter.Language { return java.GetLanguage() },
	"kotlin":     func() *sitter.Language { return kotlin.GetLanguage() },
	"cpp":        func() *sitter.Language { return cpp.GetLanguage() },
	"c":          func() *sitter.Language { return cpp.GetLanguage() }, // cpp grammar is a superset tolerant of C sources
	"csharp":     func() *sitter.Language { return csharp.GetLanguage() },
	"swift":      func() *sitter.Language { return swift.GetLanguage() },
	"ruby":       func() *sitter.Language { return ruby.GetLanguage() },
	"php":        func() *sitter.Language { return php.GetLanguage() },
	"html":       func() *sitter.Language { return html.GetLanguage() },
	"css":        func() *sitter.Language { return css.GetLanguage() },
	"json":       nil, // no grammar binding in the dependency pack
	"yaml":       func() *sitter.Language { return yaml.GetLanguage() },
	"bash":       func() *sitter.Language { return bash.GetLanguage() },
	"lua":        func() *sitter.Language { return lua.GetLanguage() },
	"elixir":     func() *sitter.Language { return elixir.GetLanguage() },
	"scala":      func() *sitter.Language { return scala.GetLanguage() },
	"haskell":    nil, // no grammar binding in the dependency pack
	"solidity":   nil, // no grammar binding in the dependency pack
	"nix":        nil, // no grammar binding in the dependency pack
	"hcl":        func() *sitter.Language { return hcl.GetLanguage() },
}

// languageAliases maps every case-insensitive alias from §4.4 to its
// canonical tag.
var languageAliases = map[string]string{
	"typescript": "typescript",
	"ts":         "typescript",
	"tsx":        "tsx",
	"javascript": "javascript",
	"js":         "javascript",
	"python":     "python",
	"py":         "python",
	"rust":       "rust",
	"rs":         "rust",
	"go":         "go",
	"java":       "java",
	"kotlin":     "kotlin",
	"kt":         "kotlin",
	"cpp":        "cpp",
	"c++":        "cpp",
	"cxx":        "cpp",
	"c":          "c",
	"csharp":     "csharp",
	"c#":         "csharp",
	"cs":         "csharp",
	"swift":      "swift",
	"ruby":       "ruby",
	"rb":         "ruby",
	"php":        "php",
	"html":       "html",
	"css":        "css",
	"json":       "json",
	"yaml":       "yaml",
	"yml":        "yaml",
	"bash":       "bash",
	"sh":         "bash",
	"lua":        "lua",
	"elixir":     "elixir",
	"ex":         "elixir",
	"scala":      "scala",
	"haskell":    "haskell",
	"hs":         "haskell",
	"solidity":   "solidity",
	"sol":        "solidity",
	"nix":        "nix",
	"hcl":        "hcl",
	"terraform":  "hcl",
}

// resolveLanguage canonicalizes alias and looks up its grammar loader. It
// returns (tag, loader, ok-as-known-alias). A known alias whose loader is
// nil reports ok=true but loader=nil, distinguishing UnsupportedLanguage
// (loader unavailable) from an entirely unknown alias.
func resolveLanguage(alias string) (tag string, loader languageLoader, known bool) {
	tag, known = languageAliases[strings.ToLower(strings.TrimSpace(alias))]
	if !known {
		return "", nil, false
	}
	return tag, languageRegistry[tag], true
}
