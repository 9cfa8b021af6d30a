package models

// PaginationQuery 列表接口的分页查询参数，Desc 为 true 时按创建时间倒序
type PaginationQuery struct {
	PageNum  int  `form:"pageNum" json:"pageNum"`
	PageSize int  `form:"pageSize" json:"pageSize"`
	Desc     bool `form:"desc" json:"desc"`
}

// PaginationResult 随列表数据一起返回的分页信息
type PaginationResult struct {
	Total    int `json:"total"`
	PageNum  int `json:"pageNum"`
	PageSize int `json:"pageSize"`
}

func NewPaginationResult(total, pageNum, pageSize int) PaginationResult {
	return PaginationResult{Total: total, PageNum: pageNum, PageSize: pageSize}
}
