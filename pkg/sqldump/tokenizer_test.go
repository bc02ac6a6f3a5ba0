package sqldump

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		values string
		want   [][]string
	}{
		{
			name:   "单条记录",
			values: "(1,'Nokian','летняя')",
			want:   [][]string{{"1", "Nokian", "летняя"}},
		},
		{
			name:   "多条记录保持顺序",
			values: "(1,'a'),(2,'b'),(3,'c')",
			want:   [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}},
		},
		{
			name: "双引号转义还原为字面单引号",
			// 字符串里的 '' 是一个单引号，逗号在字符串内不切分
			values: "(1,'O''Brien, Ltd')",
			want:   [][]string{{"1", "O'Brien, Ltd"}},
		},
		{
			name:   "反斜杠转义原样透传",
			values: `(1,'a\'b','x\\y')`,
			want:   [][]string{{"1", `a\'b`, `x\\y`}},
		},
		{
			name:   "NULL 与数字保持原样",
			values: "(1,NULL,45.5)",
			want:   [][]string{{"1", "NULL", "45.5"}},
		},
		{
			name:   "字符串内的括号不参与配对",
			values: "(1,'DTW (21 день)')",
			want:   [][]string{{"1", "DTW (21 день)"}},
		},
		{
			name:   "空输入",
			values: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.values)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		values string
	}{
		{"嵌套括号", "(1,(2,3))"},
		{"未闭合字符串", "(1,'abc"},
		{"未闭合元组", "(1,2"},
		{"多余右括号", "(1,2))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.values)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestCleanValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"'Nokian'", "Nokian"},
		{"  'Nokian'  ", "Nokian"},
		{"NULL", ""},
		{"'NULL'", ""},
		{"123", "123"},
		{"''", ""},
		{"'", "'"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanValue(tt.in), "CleanValue(%q)", tt.in)
	}
}

func TestExtractInserts(t *testing.T) {
	content := "CREATE TABLE `product_flat` (...);\n" +
		"INSERT INTO `product_flat` VALUES (1,'a'),(2,'b');\n" +
		"INSERT INTO `other_table` VALUES (9,'x');\n" +
		"INSERT INTO `product_flat` VALUES (3,'c');\n"

	bodies := ExtractInserts(content, "product_flat")
	assert.Equal(t, []string{"(1,'a'),(2,'b')", "(3,'c')"}, bodies)

	assert.Empty(t, ExtractInserts(content, "missing_table"))
}

func TestExtractInsertsWithoutBackticks(t *testing.T) {
	content := "INSERT INTO podbor_shini_i_diski VALUES (1,'Acura');"
	bodies := ExtractInserts(content, "podbor_shini_i_diski")
	assert.Equal(t, []string{"(1,'Acura')"}, bodies)
}

// 词法往返：Tokenize 的输出经 CleanValue 后应还原原始字段值
func TestTokenizeRoundTrip(t *testing.T) {
	values := "(42,'Склад Колёс','10-14 днів',NULL,'91/89')"
	records, err := Tokenize(values)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("期望 1 条记录, 实际 %d", len(records))
	}

	want := []string{"42", "Склад Колёс", "10-14 днів", "", "91/89"}
	for i, field := range records[0] {
		if got := CleanValue(field); got != want[i] {
			t.Errorf("字段 %d: 期望 %q, 实际 %q", i, want[i], got)
		}
	}

	var malformed error
	_, malformed = Tokenize("(42,'Склад")
	if !errors.Is(malformed, ErrMalformed) {
		t.Errorf("期望 ErrMalformed, 实际 %v", malformed)
	}
}
