package form

// CustomLabel marks a theme tone or topic whose wording comes from free text.
const CustomLabel = "Tùy chỉnh"

// DefaultTheme is the tone new forms start with.
const DefaultTheme = "Xanh công nghệ (MISA Blue)"

// Themes lists the selectable color palettes.
var Themes = []string{
	DefaultTheme,
	"Đen huyền bí (Black & Gold)",
	"Xanh Navy - Trắng (Corporate)",
	"Đỏ - Trắng - Đen (Energetic)",
	"Xanh - Trắng - Đen (Modern)",
	CustomLabel,
}

// Topics lists the selectable poster topics.
var Topics = []string{
	"Tài chính - Kế toán",
	"Công nghệ",
	"AI",
	"Bán hàng",
	"Marketing",
	"Nhân sự",
	"Điều hành",
	"Sản xuất",
	CustomLabel,
}
