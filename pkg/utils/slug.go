package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify 生成 URL slug，保留 Unicode 字母（西里尔品牌名不转写）
// 规则：NFKC 归一 → 小写 → 去掉字母/数字/下划线/空白/连字符以外的符号
// → 空白与连字符折叠为单个 '-' → 去掉首尾 '-' 和 '_'
func Slugify(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen && b.Len() > 0 {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
		// 其余标点直接丢弃
	}

	return strings.Trim(b.String(), "-_")
}

// TruncateRunes 按字符数截断（slug 列有长度上限，截断后再查重）
func TruncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
