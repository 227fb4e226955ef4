package collector

import (
	"errors"
	"fmt"
)

// ErrDateParse 日期文本与站点格式不符
var ErrDateParse = errors.New("date parse failed")

// FetchKind 区分列表页与详情页的抓取失败
type FetchKind string

const (
	KindListing FetchKind = "listing"
	KindDetail  FetchKind = "detail"
)

// FetchError 上游页面不可达或返回非 2xx
type FetchError struct {
	Kind       FetchKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "page"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s fetch %s: HTTP %d", kind, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s fetch %s: %v", kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsListingFetchError 判断错误链中是否有列表页抓取失败
func IsListingFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindListing
}

// IsDetailFetchError 判断错误链中是否有详情页抓取失败
func IsDetailFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindDetail
}

// withKind 给抓取错误标注来源（列表页/详情页）
func withKind(kind FetchKind, url string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		out := *fe
		out.Kind = kind
		return &out
	}
	return &FetchError{Kind: kind, URL: url, Err: err}
}

// ListingError 把列表页抓取失败标注为 KindListing
func ListingError(url string, err error) error {
	return withKind(KindListing, url, err)
}
