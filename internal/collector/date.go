package collector

import (
	"fmt"
	"strings"
	"time"
)

// 站点日期模式到 Go layout 的映射；月日时分秒都用非补零写法，兼容 "3" 与 "03"
var datePatternTokens = strings.NewReplacer(
	"YYYY", "2006",
	"MM", "1",
	"DD", "2",
	"HH", "15",
	"mm", "4",
	"ss", "5",
)

// NormalizeDate 按站点模式（如 YYYY年MM月DD日 HH:mm）解析不带时区的本地时间，
// 并把它解释为 UTC+utcOffsetHours 的墙上时间。
// 解析失败返回包装了 ErrDateParse 的错误，调用方应当忽略该日期而不是中断整个 feed。
func NormalizeDate(raw, pattern string, utcOffsetHours int) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || pattern == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateParse, raw)
	}
	loc := fixedZone(utcOffsetHours)
	t, err := time.ParseInLocation(datePatternTokens.Replace(pattern), raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q with pattern %q: %v", ErrDateParse, raw, pattern, err)
	}
	return t, nil
}

func fixedZone(hours int) *time.Location {
	if hours == 8 {
		// 与存储层的东八区展示保持一致
		return time.FixedZone("CST", 8*60*60)
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*60*60)
}
