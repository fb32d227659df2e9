package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"

	"walmart_dev_v1_202608/internal/config"
	"walmart_dev_v1_202608/internal/model"
)

// ==================== 服务实现 ====================

// ImageService 图片可用性校验
// 探测方式：HEAD 请求，检查状态码 / Content-Type / Content-Length
type ImageService struct {
	client      *resty.Client
	minBytes    int64
	cdnPatterns []*regexp.Regexp

	// 测试里探测假上游时置 false（httptest 只有明文端口）
	requireTLS bool
}

// NewImageService 创建图片校验服务
func NewImageService(cfg *config.Config) *ImageService {
	var patterns []*regexp.Regexp
	for _, p := range cfg.CDNPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			// 配置里的坏模式直接跳过，CDN 检查本来就只是性能建议
			continue
		}
		patterns = append(patterns, re)
	}

	return &ImageService{
		client:      resty.New().SetTimeout(cfg.HTTPTimeout),
		minBytes:    cfg.MinImageBytes,
		cdnPatterns: patterns,
		requireTLS:  true,
	}
}

// Validate 校验单张图片
func (s *ImageService) Validate(ctx context.Context, location, rawURL string) []model.ValidationIssue {
	var issues []model.ValidationIssue

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		issues = append(issues, model.NewError(location, fmt.Sprintf("图片 URL 无法解析: %q", rawURL)))
		return issues
	}
	if s.requireTLS && u.Scheme != "https" {
		issues = append(issues, model.NewError(location, "图片必须使用 https 安全传输"))
		return issues
	}

	// 可达性探测（超时同样算 Error）
	resp, err := s.client.R().SetContext(ctx).Head(rawURL)
	if err != nil {
		issues = append(issues, model.NewError(location, fmt.Sprintf("图片可达性探测失败: %v", err)))
		return issues
	}
	if !resp.IsSuccess() {
		issues = append(issues, model.NewError(location,
			fmt.Sprintf("图片探测返回非成功状态 [%d]", resp.StatusCode())))
		return issues
	}

	contentType := resp.Header().Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		issues = append(issues, model.NewError(location,
			fmt.Sprintf("Content-Type 不是图片类型: %q", contentType)))
	}

	if size := resp.RawResponse.ContentLength; size < 0 {
		issues = append(issues, model.NewWarning(location, "无法确定图片字节大小"))
	} else if size < s.minBytes {
		issues = append(issues, model.NewWarning(location,
			fmt.Sprintf("图片仅 %d 字节，低于建议下限 %d", size, s.minBytes)))
	}

	if !s.matchesCDN(rawURL) {
		issues = append(issues, model.NewWarning(location, "图片未托管在已知 CDN，加载性能可能受影响"))
	}

	return issues
}

// ValidateSet 校验主图 + 全部附图
// 主图缺失是 Error；其余各图独立校验后拼接
func (s *ImageService) ValidateSet(ctx context.Context, main *model.ImageRef, additional []model.ImageRef) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if main == nil || main.URL == "" {
		issues = append(issues, model.NewError("images.main", "缺少主图"))
	} else {
		issues = append(issues, s.Validate(ctx, "images.main", main.URL)...)
	}

	for i, img := range additional {
		location := fmt.Sprintf("images.additional[%d]", i)
		issues = append(issues, s.Validate(ctx, location, img.URL)...)
	}

	return issues
}

func (s *ImageService) matchesCDN(rawURL string) bool {
	for _, re := range s.cdnPatterns {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}
