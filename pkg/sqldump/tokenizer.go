package sqldump

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed 输入结构损坏（括号/引号不配对），整条语句不可恢复
var ErrMalformed = errors.New("malformed values text")

// Tokenize 把一条 INSERT ... VALUES 后面的元组列表切分为记录
// 每条记录是按列顺序排列的原始字段字符串：引号标记已剥离，
// '' 还原为单引号，\x 原样透传（保留反斜杠，与转储生成端一致）
//
// 单遍扫描，显式状态机：inString / escapeNext / parenDepth
// 元组语法是平坦的（不允许嵌套括号），深度超过 1 视为损坏输入
func Tokenize(values string) ([][]string, error) {
	var (
		records    [][]string
		record     []string
		field      strings.Builder
		inRecord   bool
		inString   bool
		escapeNext bool
	)
	parenDepth := 0

	flushField := func() {
		record = append(record, strings.TrimSpace(field.String()))
		field.Reset()
	}

	i := 0
	for i < len(values) {
		ch := values[i]

		if escapeNext {
			field.WriteByte(ch)
			escapeNext = false
			i++
			continue
		}

		if inString {
			switch ch {
			case '\\':
				// 反斜杠及其后一个字符原样保留
				field.WriteByte(ch)
				escapeNext = true
			case '\'':
				// '' 是字面单引号，单个 ' 结束字符串
				if i+1 < len(values) && values[i+1] == '\'' {
					field.WriteByte('\'')
					i += 2
					continue
				}
				inString = false
			default:
				field.WriteByte(ch)
			}
			i++
			continue
		}

		switch ch {
		case '\'':
			inString = true
		case '(':
			if parenDepth != 0 {
				return nil, fmt.Errorf("%w: nested tuple at offset %d", ErrMalformed, i)
			}
			parenDepth = 1
			inRecord = true
			record = nil
			field.Reset()
		case ')':
			if parenDepth != 1 {
				return nil, fmt.Errorf("%w: unexpected ')' at offset %d", ErrMalformed, i)
			}
			parenDepth = 0
			inRecord = false
			if field.Len() > 0 || len(record) > 0 {
				flushField()
			}
			records = append(records, record)
			record = nil
		case ',':
			if parenDepth == 1 {
				flushField()
			}
			// 记录之间的逗号直接跳过
		default:
			if parenDepth == 1 {
				field.WriteByte(ch)
			}
			// 括号外的空白/分号等一律忽略
		}
		i++
	}

	if inString {
		return nil, fmt.Errorf("%w: unterminated string literal", ErrMalformed)
	}
	if inRecord || parenDepth != 0 {
		return nil, fmt.Errorf("%w: unterminated tuple", ErrMalformed)
	}

	return records, nil
}

// CleanValue 去掉字段外层引号并把 NULL 归一为空串
func CleanValue(val string) string {
	val = strings.TrimSpace(val)
	if len(val) >= 2 && strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
		val = val[1 : len(val)-1]
	}
	if val == "NULL" {
		return ""
	}
	return val
}
