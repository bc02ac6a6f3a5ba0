package service

import "fmt"

// 错误样本上限：只保留前 20 条用于汇报，避免大批量导入时无限增长
const maxErrorSamples = 20

// ImportSummary 单次导入的运行汇总
// 每条记录恰好落入 created/updated/skipped/errors 之一
type ImportSummary struct {
	Created      int      `json:"created"`
	Updated      int      `json:"updated"`
	Skipped      int      `json:"skipped"`
	Errors       int      `json:"errors"`
	ErrorSamples []string `json:"error_samples"`
	TotalRows    int      `json:"total_rows"`
}

// AddRowError 记录单条记录的处理失败，超出样本上限后只计数
func (s *ImportSummary) AddRowError(row int, err error) {
	s.Errors++
	if len(s.ErrorSamples) < maxErrorSamples {
		s.ErrorSamples = append(s.ErrorSamples, fmt.Sprintf("Row %d: %v", row, err))
	}
}

// AddStatementError 记录单条 INSERT 语句级别的解析失败（其余语句继续）
func (s *ImportSummary) AddStatementError(stmt int, err error) {
	s.Errors++
	if len(s.ErrorSamples) < maxErrorSamples {
		s.ErrorSamples = append(s.ErrorSamples, fmt.Sprintf("Statement %d: %v", stmt, err))
	}
}

func (s *ImportSummary) String() string {
	return fmt.Sprintf("created=%d updated=%d skipped=%d errors=%d total=%d",
		s.Created, s.Updated, s.Skipped, s.Errors, s.TotalRows)
}
