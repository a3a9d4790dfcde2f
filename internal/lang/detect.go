// Package lang detects the language tag of a document and supplies
// language-aware structural parsers for the similarity kernel.
package lang

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Known language tags. Everything unrecognized degrades to "text".
const (
	Python       = "python"
	JavaScript   = "javascript"
	TypeScript   = "typescript"
	JSON         = "json"
	YAML         = "yaml"
	XML          = "xml"
	HTML         = "html"
	CSS          = "css"
	Go           = "go"
	Rust         = "rust"
	Java         = "java"
	C            = "c"
	CPP          = "cpp"
	Bash         = "bash"
	Markdown     = "markdown"
	Text         = "text"
	CiscoIOS     = "cisco-ios"
	JuniperJunos = "juniper-junos"
	AristaEOS    = "arista-eos"
)

// enryNames maps enry's language names to our tags.
var enryNames = map[string]string{
	"Python":     Python,
	"JavaScript": JavaScript,
	"TypeScript": TypeScript,
	"TSX":        TypeScript,
	"JSON":       JSON,
	"YAML":       YAML,
	"XML":        XML,
	"HTML":       HTML,
	"CSS":        CSS,
	"Go":         Go,
	"Rust":       Rust,
	"Java":       Java,
	"C":          C,
	"C++":        CPP,
	"Shell":      Bash,
	"Markdown":   Markdown,
}

// DetectFileType returns the language tag for content, optionally hinted by
// a filename. Network configuration dialects are matched first by keyword
// heuristics since general-purpose detectors do not know them; everything
// else resolves through enry.
//
// Dialect precedence is frozen as Juniper first; then an IOS-shaped config
// with any Arista-unique marker is arista-eos, even when Cisco-unique
// markers also appear; every other IOS-shaped config is cisco-ios. Arista
// configs that only use the shared IOS command set are therefore reported
// as cisco-ios.
func DetectFileType(content, filename string) string {
	if tag, ok := detectNetworkConfig(content); ok {
		return tag
	}
	name := enry.GetLanguage(filename, []byte(content))
	if tag, ok := enryNames[name]; ok {
		return tag
	}
	return Text
}

// aristaMarkers are commands that exist on EOS but not classic IOS.
var aristaMarkers = []string{
	"daemon terminattr",
	"management api http-commands",
	"hardware counter feature",
	"transceiver qsfp default-mode",
}

var ciscoMarkers = []string{
	"boot system flash",
	"service timestamps",
	"ip classless",
	"line vty",
	"router ospf",
	"router bgp",
	"ip route ",
}

func detectNetworkConfig(content string) (string, bool) {
	lower := strings.ToLower(content)

	if looksJuniper(lower) {
		return JuniperJunos, true
	}

	// Shared IOS-style shape: bang comments plus interface stanzas.
	iosShape := strings.Contains(lower, "\ninterface ") || strings.HasPrefix(lower, "interface ")
	iosShape = iosShape && (strings.Contains(lower, "\n!") || strings.HasPrefix(lower, "!"))
	if !iosShape {
		return "", false
	}

	for _, m := range aristaMarkers {
		if strings.Contains(lower, m) {
			return AristaEOS, true
		}
	}
	for _, m := range ciscoMarkers {
		if strings.Contains(lower, m) {
			return CiscoIOS, true
		}
	}
	// Interface stanzas with bang separators but no distinguishing
	// marker: the shared command set reads as classic IOS.
	return CiscoIOS, true
}

func looksJuniper(lower string) bool {
	if !strings.Contains(lower, "{") || !strings.Contains(lower, ";") {
		return false
	}
	stanzas := 0
	for _, s := range []string{"system {", "interfaces {", "protocols {", "routing-options {", "policy-options {"} {
		if strings.Contains(lower, s) {
			stanzas++
		}
	}
	return stanzas >= 1
}

// LineCommentPrefixes returns the line-comment markers for a language tag.
func LineCommentPrefixes(tag string) []string {
	switch tag {
	case Python, YAML, Bash:
		return []string{"#"}
	case JavaScript, TypeScript, Go, Rust, Java, C, CPP, CSS:
		return []string{"//"}
	case CiscoIOS, AristaEOS:
		return []string{"!"}
	case JuniperJunos:
		return []string{"#", "//"}
	default:
		return []string{"//", "#"}
	}
}

// HasBlockComments reports whether the language uses /* */ comments.
func HasBlockComments(tag string) bool {
	switch tag {
	case JavaScript, TypeScript, Go, Rust, Java, C, CPP, CSS, JuniperJunos:
		return true
	}
	return false
}
