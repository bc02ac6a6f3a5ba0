package sqldump

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ExtractInserts 在转储文本中找出指定表的全部 INSERT 语句，返回 VALUES 部分
// 一个转储里同一张表可能有多条 INSERT（每条上千元组），按出现顺序返回
func ExtractInserts(content, table string) []string {
	pattern := regexp.MustCompile(fmt.Sprintf("(?s)INSERT INTO `?%s`? VALUES (.+?);", regexp.QuoteMeta(table)))

	var bodies []string
	for _, m := range pattern.FindAllStringSubmatch(content, -1) {
		bodies = append(bodies, m[1])
	}
	return bodies
}

// ReadDumpFile 读入 SQL 转储文件，非法字节按替换字符容错处理
func ReadDumpFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取转储文件失败: %w", err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
