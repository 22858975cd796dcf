package styling

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComponentStyle is a stylesheet whose class selectors are scoped with a
// content hash, so two components may both use ".toolbar"
type ComponentStyle struct {
	// Hash is derived from the source CSS
	Hash string

	// CSS is the source stylesheet
	CSS string

	names  map[string]string
	scoped string
}

// Style scopes css. Class selectors are rewritten; declarations are left
// untouched.
func Style(css string) *ComponentStyle {
	sum := sha256.Sum256([]byte(css))
	hash := "_" + hex.EncodeToString(sum[:])[:6]

	s := &ComponentStyle{
		Hash:  hash,
		CSS:   css,
		names: make(map[string]string),
	}
	s.scoped = s.rewrite(removeComments(css))
	return s
}

// rewrite replaces every .class in selector position with its hashed name.
// Blocks of grouping at-rules such as @media still contain selectors.
func (c *ComponentStyle) rewrite(css string) string {
	var b strings.Builder
	b.Grow(len(css) + len(css)/8)

	var blocks []bool // true for grouping at-rule blocks
	rules := 0        // open blocks holding declarations
	prelude := 0
	for i := 0; i < len(css); i++ {
		ch := css[i]
		switch {
		case ch == '{':
			group := isGroupRule(css[prelude:i])
			blocks = append(blocks, group)
			if !group {
				rules++
			}
			prelude = i + 1
		case ch == '}':
			if n := len(blocks); n > 0 {
				if !blocks[n-1] {
					rules--
				}
				blocks = blocks[:n-1]
			}
			prelude = i + 1
		case ch == ';':
			prelude = i + 1
		case ch == '.' && rules == 0 && i+1 < len(css) && isNameStart(css[i+1]):
			end := i + 1
			for end < len(css) && isNameChar(css[end]) {
				end++
			}
			name := css[i+1 : end]
			hashed, ok := c.names[name]
			if !ok {
				hashed = c.Hash + "_" + name
				c.names[name] = hashed
			}
			b.WriteByte('.')
			b.WriteString(hashed)
			i = end - 1
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

var groupRules = []string{"@media", "@supports", "@container", "@layer", "@document"}

func isGroupRule(prelude string) bool {
	prelude = strings.TrimSpace(prelude)
	for _, r := range groupRules {
		if strings.HasPrefix(prelude, r) {
			return true
		}
	}
	return false
}

func isNameStart(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// removeComments removes CSS comments from the string
func removeComments(css string) string {
	var b strings.Builder
	for i := 0; i < len(css); i++ {
		if i < len(css)-1 && css[i] == '/' && css[i+1] == '*' {
			end := strings.Index(css[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 3
			continue
		}
		b.WriteByte(css[i])
	}
	return b.String()
}

// Sheet returns the stylesheet with scoped class selectors
func (c *ComponentStyle) Sheet() string {
	if c == nil {
		return ""
	}
	return c.scoped
}

// Class returns the scoped class name for name. Unknown names are returned
// unchanged.
func (c *ComponentStyle) Class(name string) string {
	if c == nil {
		return name
	}
	if v, ok := c.names[name]; ok {
		return v
	}
	return name
}

// Classes returns multiple scoped class names separated by space
func (c *ComponentStyle) Classes(names ...string) string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = c.Class(name)
	}
	return strings.Join(out, " ")
}

// Has returns whether the stylesheet declares a class name
func (c *ComponentStyle) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.names[name]
	return ok
}
