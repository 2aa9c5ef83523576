package dto

// DateLayout 接口中日期字段的格式
const DateLayout = "2006-01-02"

// ExportRequest 报表导出参数，export 为空时返回 JSON
type ExportRequest struct {
	Export string `form:"export" binding:"omitempty,oneof=csv xlsx pdf"`
}

// IDResponse 创建类接口的响应
type IDResponse struct {
	ID string `json:"id"`
}
