package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"postergen/internal/form"
	"postergen/internal/logging"
	"postergen/internal/prompt"
	"postergen/internal/usage"

	"google.golang.org/genai"
)

const extractInstruction = `Bạn là một trợ lý AI chuyên trích xuất thông tin sự kiện từ các tài liệu hoặc hình ảnh thư mời.
Hãy phân tích file đính kèm và trích xuất các thông tin sau dưới dạng JSON:

- eventName: Tên sự kiện (Tiêu đề chính).
- date: Ngày diễn ra (Định dạng DD/MM/YYYY).
- time: Giờ diễn ra (Ví dụ: 08:00 - 11:30).
- targetAudience: Đối tượng khách mời tham gia.
- isOnline: true nếu là Zoom/Google Meet/Online, false nếu là Offline.
- locationOrPlatform: Địa điểm tổ chức hoặc link Zoom/ID Zoom.
- contactName: Tên người liên hệ.
- contactPhone: Số điện thoại liên hệ.
- contactEmail: Email liên hệ.

Nếu không tìm thấy thông tin nào, hãy để chuỗi rỗng "".
Đừng tự bịa thông tin.
Trả về định dạng JSON thuần túy, không markdown.
`

// ExtractEventInfo reads event details off a document or image. Fields the
// model leaves out come back blank; any request or parse failure is
// reported as ErrExtraction.
func (c *Client) ExtractEventInfo(ctx context.Context, doc prompt.Attachment) (form.Extraction, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	timer := logging.StartTimer(logging.CategoryAPI, "extract event info")
	defer timer.Stop()

	logging.API("extract event info: model=%s input=%s (%d bytes)", c.models.Extract, doc.MimeType, len(doc.Data))

	resp, err := c.gen.GenerateContent(ctx, c.models.Extract, single(doc, extractInstruction), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		logging.APIError("extraction failed: %v", err)
		return form.Extraction{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	c.track(c.models.Extract, usage.OperationExtract, resp)

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	ext, err := ParseExtraction(text)
	if err != nil {
		logging.APIError("extraction parse failed: %v", err)
		return form.Extraction{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	logging.APIDebug("extracted: %+v", ext)
	return ext, nil
}

// ParseExtraction decodes the first JSON object in text. Missing or
// mistyped fields default to "" and false.
func ParseExtraction(text string) (form.Extraction, error) {
	if strings.TrimSpace(text) == "" {
		return form.Extraction{}, fmt.Errorf("empty response")
	}
	obj, ok := extractJSONObject(text)
	if !ok {
		return form.Extraction{}, fmt.Errorf("no JSON object in response")
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(obj), &data); err != nil {
		return form.Extraction{}, fmt.Errorf("decode JSON: %w", err)
	}

	str := func(key string) string {
		s, _ := data[key].(string)
		return s
	}
	online, _ := data["isOnline"].(bool)

	return form.Extraction{
		EventName:          str("eventName"),
		Date:               str("date"),
		Time:               str("time"),
		TargetAudience:     str("targetAudience"),
		IsOnline:           online,
		LocationOrPlatform: str("locationOrPlatform"),
		ContactName:        str("contactName"),
		ContactPhone:       str("contactPhone"),
		ContactEmail:       str("contactEmail"),
	}, nil
}

// extractJSONObject returns the first balanced {...} span, skipping braces
// inside string literals.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
