package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/openstrand/strandkit/internal/icons"
)

// collector accumulates diagnostics and carries the icon registry into the
// kind routines.
type collector struct {
	res   *Result
	icons icons.Registry
}

func (c *collector) err(path string, value any, format string, args ...any) {
	c.res.Errors = append(c.res.Errors, Note{Path: path, Message: fmt.Sprintf(format, args...), Value: value})
}

func (c *collector) warn(path string, value any, format string, args ...any) {
	c.res.Warnings = append(c.res.Warnings, Note{Path: path, Message: fmt.Sprintf(format, args...), Value: value})
}

// --- typed accessors over the generic tree ---
//
// Each accessor reports (value, usable). A field that is present but of the
// wrong primitive type records an error and comes back unusable; absence is
// silent because optional fields are never required to exist.

func (c *collector) subMap(m map[string]any, path, key string) (map[string]any, bool) {
	raw, ok := m[key]
	if !ok {
		return nil, false
	}
	sub, ok := raw.(map[string]any)
	if !ok {
		c.err(joinPath(path, key), raw, "must be a mapping")
		return nil, false
	}
	return sub, true
}

func (c *collector) str(m map[string]any, path, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		c.err(joinPath(path, key), raw, "must be a string")
		return "", false
	}
	return s, true
}

// requiredStr emits an is-required error when the field is absent or blank,
// so the caller can short-circuit the rest of its field group.
func (c *collector) requiredStr(m map[string]any, path, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		c.err(joinPath(path, key), nil, "is required")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		c.err(joinPath(path, key), raw, "must be a string")
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		c.err(joinPath(path, key), s, "is required")
		return "", false
	}
	return s, true
}

func (c *collector) intVal(m map[string]any, path, key string) (int, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		c.err(joinPath(path, key), raw, "must be an integer")
		return 0, false
	}
}

func (c *collector) num(m map[string]any, path, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		c.err(joinPath(path, key), raw, "must be a number")
		return 0, false
	}
}

func (c *collector) boolVal(m map[string]any, path, key string) (bool, bool) {
	raw, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := raw.(bool)
	if !ok {
		c.err(joinPath(path, key), raw, "must be a boolean")
		return false, false
	}
	return b, true
}

func (c *collector) strSlice(m map[string]any, path, key string) ([]string, bool) {
	raw, ok := m[key]
	if !ok {
		return nil, false
	}
	list, ok := raw.([]any)
	if !ok {
		c.err(joinPath(path, key), raw, "must be a list of strings")
		return nil, false
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			c.err(fmt.Sprintf("%s[%d]", joinPath(path, key), i), item, "must be a string")
			continue
		}
		out = append(out, s)
	}
	return out, true
}

// --- semantic rules ---

// rule runs an ozzo rule chain against a value and records any failure under
// path.
func (c *collector) rule(path string, value any, rules ...validation.Rule) {
	if err := validation.Validate(value, rules...); err != nil {
		c.err(path, value, "%s", err.Error())
	}
}

// enum checks membership in a fixed allowed set; the message lists the set.
func (c *collector) enum(path, value string, allowed []string) {
	c.rule(path, value,
		validation.In(anyValues(allowed)...).Error("must be one of: "+strings.Join(allowed, ", ")))
}

func anyValues(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

var (
	hexColorRe  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbColorRe  = regexp.MustCompile(`^rgba?\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*(?:,\s*(?:0|1|0?\.\d+|1\.0+)\s*)?\)$`)
	hslColorRe  = regexp.MustCompile(`^hsla?\(\s*\d{1,3}\s*,\s*\d{1,3}%\s*,\s*\d{1,3}%\s*(?:,\s*(?:0|1|0?\.\d+|1\.0+)\s*)?\)$`)
	namedColors = map[string]struct{}{
		"black": {}, "white": {}, "red": {}, "green": {}, "blue": {},
		"yellow": {}, "orange": {}, "purple": {}, "pink": {}, "gray": {},
		"grey": {}, "teal": {}, "cyan": {}, "magenta": {}, "brown": {},
		"transparent": {},
	}
)

// isColor implements the CSS color grammar this format accepts: hex 3/6/8,
// rgb()/rgba(), hsl()/hsla(), or a small named set. Written as a custom rule
// because ozzo's is-helpers only cover full hex colors.
func isColor(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if hexColorRe.MatchString(s) || rgbColorRe.MatchString(s) || hslColorRe.MatchString(s) {
		return nil
	}
	if _, ok := namedColors[strings.ToLower(s)]; ok {
		return nil
	}
	return fmt.Errorf("must be a valid CSS color (hex, rgb(), rgba(), hsl(), hsla(), or a named color)")
}

// isURLRef accepts absolute URLs and paths beginning with /, ./, or ../.
func isURLRef(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") {
		return nil
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		return nil
	}
	return fmt.Errorf("must be an absolute URL or a path starting with /, ./, or ../")
}

func (c *collector) color(m map[string]any, path, key string) {
	if s, ok := c.str(m, path, key); ok {
		c.rule(joinPath(path, key), s, validation.By(isColor))
	}
}

func (c *collector) urlRef(m map[string]any, path, key string) {
	if s, ok := c.str(m, path, key); ok {
		c.rule(joinPath(path, key), s, validation.By(isURLRef))
	}
}

// icon looks the id up in the registry; a miss is a warning because the
// consumer falls back to the default icon.
func (c *collector) icon(m map[string]any, path, key string) {
	s, ok := c.str(m, path, key)
	if !ok || s == "" {
		return
	}
	if c.icons != nil && !c.icons.Has(s) {
		c.warn(joinPath(path, key), s, "unknown icon %q; the default icon will be used", s)
	}
}

// style validates the shared style-properties contract under basePath.
func (c *collector) style(m map[string]any, basePath string) {
	style, ok := c.subMap(m, "", basePath)
	if !ok {
		return
	}
	for _, key := range []string{
		"backgroundColor", "accentColor", "textColor", "borderColor",
		"nodeColor", "edgeColor",
	} {
		c.color(style, basePath, key)
	}
	for _, key := range []string{"thumbnailUrl", "coverUrl", "backgroundImage"} {
		c.urlRef(style, basePath, key)
	}
	c.str(style, basePath, "borderRadius")
	c.str(style, basePath, "gradient")
	if opacity, ok := c.num(style, basePath, "opacity"); ok {
		c.rule(joinPath(basePath, "opacity"), opacity,
			validation.Min(0.0).Error("must be between 0 and 1"),
			validation.Max(1.0).Error("must be between 0 and 1"))
	}
	if blur, ok := c.num(style, basePath, "blur"); ok {
		c.rule(joinPath(basePath, "blur"), blur,
			validation.Min(0.0).Error("must not be negative"))
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
