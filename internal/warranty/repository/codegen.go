package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// 各实体的业务编码模板，数字部分决定补零宽度
const (
	CustomerCodeTemplate      = "CUST-0001"
	ProductCodeTemplate       = "PRD-001"
	WarrantyCodeTemplate      = "WRN-10001"
	ClaimCodeTemplate         = "CLM-20001"
	ServiceCenterCodeTemplate = "SVC-001"
	TechnicianCodeTemplate    = "TECH-001"
	RepairOrderCodeTemplate   = "RPR-30001"
)

// nextCode 生成下一个业务编码：扫描已有编码的数字后缀取最大值加一。
// 单写者串行访问下保证单调递增且无冲突。
func nextCode(ctx context.Context, db *gorm.DB, model interface{}, column, template string) (string, error) {
	var codes []string
	if err := db.WithContext(ctx).Model(model).Pluck(column, &codes).Error; err != nil {
		return "", err
	}
	return nextFromCodes(codes, template), nil
}

// nextFromCodes 纯计算部分：max(数字后缀)+1，按模板宽度补零。
// 无法解析的后缀忽略；空集合时以模板内嵌的起始值加一作为种子。
func nextFromCodes(codes []string, template string) string {
	idx := strings.LastIndex(template, "-")
	base := template[:idx+1]
	suffix := template[idx+1:]

	if len(codes) == 0 {
		start, err := strconv.Atoi(suffix)
		if err != nil || start == 0 {
			start = 10000
		}
		return base + strconv.Itoa(start+1)
	}

	max := 0
	for _, code := range codes {
		tail := code
		if i := strings.LastIndex(code, "-"); i >= 0 {
			tail = code[i+1:]
		}
		n, err := strconv.Atoi(tail)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%0*d", base, len(suffix), max+1)
}
