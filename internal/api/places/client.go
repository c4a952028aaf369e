package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/atlas/internal/models"
)

// DefaultBaseURL Google Maps Web Service 根地址
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// Client Google Places 客户端（Text Search + Place Details）
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建 Places 客户端
// timeout 作用于每一次出站请求
func NewClient(apiKey, baseURL, language string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// IsConfigured 检查是否已配置 API Key
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// TextSearch 文本搜索
// 只处理传输层错误；OK / ZERO_RESULTS 等业务状态由调用方解释
func (c *Client) TextSearch(ctx context.Context, query string, origin models.Location, radius int) (*TextSearchResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("location", formatLocation(origin))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	var result TextSearchResponse
	if err := c.get(ctx, "/place/textsearch/json", params, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("Places text search",
		zap.String("query", query),
		zap.String("status", result.Status),
		zap.Int("results", len(result.Results)))

	return &result, nil
}

// Details 查询地点详情，非 OK 状态返回 ProviderError
func (c *Client) Details(ctx context.Context, placeID string) (*Place, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", DetailFields)
	params.Set("key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	var result DetailsResponse
	if err := c.get(ctx, "/place/details/json", params, &result); err != nil {
		return nil, err
	}

	if result.Status != StatusOK {
		return nil, &ProviderError{Status: result.Status, Message: result.ErrorMessage}
	}
	if result.Result == nil {
		return nil, &ProviderError{Status: result.Status, Message: "empty details result"}
	}

	return result.Result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	apiURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return &ProviderError{Status: StatusRequestFailed, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Status: StatusRequestFailed, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{
			Status: StatusRequestFailed,
			Err:    fmt.Errorf("places api returned http status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Status: StatusRequestFailed, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

// formatLocation 编码为 "lat,lng"
func formatLocation(loc models.Location) string {
	return strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', -1, 64)
}
